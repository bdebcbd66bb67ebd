package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSStore keeps images in a MongoDB GridFS bucket. They are served by
// this process under /media/:id.
type GridFSStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewGridFSStore(db *mongo.Database, baseURL string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("images"))
	if err != nil {
		return nil, storageError("open bucket", err)
	}
	return &GridFSStore{bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *GridFSStore) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", storageError("save", err)
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	id, err := s.bucket.UploadFromStream(filename, bytes.NewReader(data), opts)
	if err != nil {
		return "", storageError("upload", err)
	}
	return s.baseURL + "/media/" + id.Hex(), nil
}

func (s *GridFSStore) Open(ctx context.Context, id string) (io.ReadCloser, string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, "", ErrMediaNotFound
	}

	stream, err := s.bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, "", ErrMediaNotFound
		}
		return nil, "", storageError("download", err)
	}

	contentType := "application/octet-stream"
	if meta := stream.GetFile().Metadata; meta != nil {
		if v, ok := meta.Lookup("contentType").StringValueOK(); ok {
			contentType = v
		}
	}
	return stream, contentType, nil
}
