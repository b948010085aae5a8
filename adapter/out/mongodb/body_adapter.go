package mongodb

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

const (
	collectionEmailBodies = "email_bodies"

	// Bodies above this size are gzipped before storage.
	compressionThreshold = 1024
)

// BodyAdapter implements out.EmailBodyRepository using MongoDB. Headers
// and the snippet live in Postgres; the full content lives here.
type BodyAdapter struct {
	collection *mongo.Collection
}

// NewBodyAdapter creates a new MongoDB email body adapter.
func NewBodyAdapter(db *mongo.Database) *BodyAdapter {
	return &BodyAdapter{collection: db.Collection(collectionEmailBodies)}
}

// EnsureIndexes creates the unique email_id index.
func (a *BodyAdapter) EnsureIndexes(ctx context.Context) error {
	_, err := a.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// bodyDocument represents the MongoDB document structure.
type bodyDocument struct {
	EmailID      int64     `bson:"email_id"`
	Text         []byte    `bson:"text"`
	HTML         []byte    `bson:"html"`
	IsCompressed bool      `bson:"is_compressed"`
	OriginalSize int64     `bson:"original_size"`
	StoredAt     time.Time `bson:"stored_at"`
}

// SaveBody upserts an email body, replacing any previous version.
func (a *BodyAdapter) SaveBody(ctx context.Context, body *domain.EmailBody) error {
	doc, err := toDocument(body)
	if err != nil {
		return fmt.Errorf("failed to encode email body: %w", err)
	}

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"email_id": body.EmailID}

	if _, err := a.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to save email body: %w", err)
	}

	return nil
}

// GetBody retrieves an email body. Returns nil when absent.
func (a *BodyAdapter) GetBody(ctx context.Context, emailID int64) (*domain.EmailBody, error) {
	var doc bodyDocument
	err := a.collection.FindOne(ctx, bson.M{"email_id": emailID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email body: %w", err)
	}

	return fromDocument(&doc)
}

// DeleteBody removes an email body.
func (a *BodyAdapter) DeleteBody(ctx context.Context, emailID int64) error {
	if _, err := a.collection.DeleteOne(ctx, bson.M{"email_id": emailID}); err != nil {
		return fmt.Errorf("failed to delete email body: %w", err)
	}
	return nil
}

func toDocument(body *domain.EmailBody) (*bodyDocument, error) {
	originalSize := int64(len(body.TextBody) + len(body.HTMLBody))
	compressed := originalSize > compressionThreshold

	text := []byte(body.TextBody)
	html := []byte(body.HTMLBody)

	if compressed {
		var err error
		if text, err = gzipBytes(text); err != nil {
			return nil, err
		}
		if html, err = gzipBytes(html); err != nil {
			return nil, err
		}
	}

	return &bodyDocument{
		EmailID:      body.EmailID,
		Text:         text,
		HTML:         html,
		IsCompressed: compressed,
		OriginalSize: originalSize,
		StoredAt:     time.Now().UTC(),
	}, nil
}

func fromDocument(doc *bodyDocument) (*domain.EmailBody, error) {
	text := doc.Text
	html := doc.HTML

	if doc.IsCompressed {
		var err error
		if text, err = gunzipBytes(text); err != nil {
			return nil, fmt.Errorf("failed to decompress text body: %w", err)
		}
		if html, err = gunzipBytes(html); err != nil {
			return nil, fmt.Errorf("failed to decompress html body: %w", err)
		}
	}

	return &domain.EmailBody{
		EmailID:  doc.EmailID,
		TextBody: string(text),
		HTMLBody: string(html),
	}, nil
}

func gzipBytes(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func gunzipBytes(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
