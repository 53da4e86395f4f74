/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package storage stores file content in GridFS.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/tomoncle/manta/errors"
)

// FileInfo describes a stored file.
type FileInfo struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Name     string             `json:"name" bson:"filename"`
	Length   int64              `json:"length" bson:"length"`
	Metadata map[string]string  `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// FileSystem wraps a GridFS bucket with context aware operations.
type FileSystem struct {
	bucket *gridfs.Bucket
}

// NewFileSystem creates a FileSystem over the database's default
// bucket.
func NewFileSystem(db *mongo.Database) (*FileSystem, error) {
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open bucket: %w", err)
	}
	return &FileSystem{bucket: bucket}, nil
}

// Upload stores the reader's content under the given name and returns
// the new file id. The context deadline, when present, bounds the
// write.
func (fs *FileSystem) Upload(ctx context.Context, name string, r io.Reader, metadata map[string]string) (primitive.ObjectID, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = fs.bucket.SetWriteDeadline(deadline)
	}
	opts := options.GridFSUpload()
	if len(metadata) > 0 {
		opts.SetMetadata(metadata)
	}
	id, err := fs.bucket.UploadFromStream(name, r, opts)
	if err != nil {
		return primitive.NilObjectID, apperrors.ErrInternalServerError.WithCause(err)
	}
	return id, nil
}

// Download copies a stored file's content to w.
func (fs *FileSystem) Download(ctx context.Context, id primitive.ObjectID, w io.Writer) (int64, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = fs.bucket.SetReadDeadline(deadline)
	}
	n, err := fs.bucket.DownloadToStream(id, w)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return 0, apperrors.ErrNotFound.WithDetail(fmt.Sprintf("file %s not found", id.Hex()))
		}
		return 0, apperrors.ErrInternalServerError.WithCause(err)
	}
	return n, nil
}

// List returns descriptions of stored files matching the filter. A nil
// filter lists everything.
func (fs *FileSystem) List(ctx context.Context, filter interface{}) ([]*FileInfo, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = fs.bucket.SetReadDeadline(deadline)
	}
	if filter == nil {
		filter = bson.D{}
	}
	cur, err := fs.bucket.Find(filter)
	if err != nil {
		return nil, apperrors.ErrInternalServerError.WithCause(err)
	}
	defer func() { _ = cur.Close(ctx) }()
	var files []*FileInfo
	if err := cur.All(ctx, &files); err != nil {
		return nil, apperrors.ErrInternalServerError.WithCause(err)
	}
	return files, nil
}

// Delete removes a stored file and its chunks.
func (fs *FileSystem) Delete(ctx context.Context, id primitive.ObjectID) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = fs.bucket.SetWriteDeadline(deadline)
	}
	if err := fs.bucket.Delete(id); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return apperrors.ErrNotFound.WithDetail(fmt.Sprintf("file %s not found", id.Hex()))
		}
		return apperrors.ErrInternalServerError.WithCause(err)
	}
	return nil
}
