package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	sc "github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ExportLinkValidity is how long the presigned download link works.
const ExportLinkValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// exportDocument is the JSON layout of an uploaded export.
type exportDocument struct {
	ExportedAt time.Time       `json:"exported_at"`
	User       exportedProfile `json:"user"`
	Todos      []exportedTodo  `json:"todos"`
}

type exportedProfile struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name"`
	UserName   string `json:"username"`
}

type exportedTodo struct {
	ID        int64     `json:"id"`
	Task      string    `json:"task"`
	Completed int       `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportService uploads a JSON snapshot of the caller's account to an
// S3-compatible bucket and hands back a presigned download link.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	now         func() time.Time
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *ExportService {
	return &ExportService{db: db, repomanager: m, config: cfg, now: time.Now}
}

func ExportStorageKey(userID int64) string {
	return fmt.Sprintf("exports/%d/%v.json", userID, uuid.New())
}

func (s *ExportService) Enabled() bool {
	return s.config.ExportsEnabled()
}

// Snapshot collects everything an export contains.
func (s *ExportService) Snapshot(ctx context.Context, userID int64) (*models.AccountExport, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		return nil, wrapInternal(err)
	}
	todos, err := s.repomanager.Todos(s.db).List(ctx, userID)
	if err != nil {
		return nil, wrapInternal(err)
	}
	return &models.AccountExport{ExportedAt: s.now().UTC(), Profile: user.Profile(), Todos: todos}, nil
}

func encodeExport(e *models.AccountExport) ([]byte, error) {
	doc := exportDocument{
		ExportedAt: e.ExportedAt,
		User: exportedProfile{
			ID:         e.Profile.ID,
			FirstName:  e.Profile.FirstName,
			MiddleName: e.Profile.MiddleName,
			LastName:   e.Profile.LastName,
			UserName:   e.Profile.UserName,
		},
		Todos: make([]exportedTodo, 0, len(e.Todos)),
	}
	for _, t := range e.Todos {
		completed := 0
		if t.Completed {
			completed = 1
		}
		doc.Todos = append(doc.Todos, exportedTodo{ID: t.ID, Task: t.Task, Completed: completed, CreatedAt: t.CreatedAt})
	}
	return json.MarshalIndent(doc, "", "  ")
}

func (s *ExportService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export returns common.ErrExportUnavailable when no bucket is configured.
func (s *ExportService) Export(ctx context.Context, userID int64) (*models.ExportLink, error) {
	if !s.Enabled() {
		return nil, common.ErrExportUnavailable
	}

	snapshot, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	body, err := encodeExport(snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: encode export: %w", common.ErrorInternal, err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: s3 config: %w", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := ExportStorageKey(userID)

	err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload export: %w", common.ErrorInternal, err)
	}

	if _, err := s.repomanager.Exports(s.db).Create(ctx, userID, key, int64(len(body))); err != nil {
		return nil, fmt.Errorf("%w: record export: %w", common.ErrorInternal, err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ExportLinkValidity))
	if err != nil {
		return nil, fmt.Errorf("%w: presign export: %w", common.ErrorInternal, err)
	}

	return &models.ExportLink{Key: key, URL: req.URL, ExpiresAt: s.now().Add(ExportLinkValidity).UTC()}, nil
}

// History lists the caller's earlier exports, newest first.
func (s *ExportService) History(ctx context.Context, userID int64) ([]*models.ExportRecord, error) {
	records, err := s.repomanager.Exports(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return records, nil
}
