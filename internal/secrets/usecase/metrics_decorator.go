package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/secretd/internal/metrics"
	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "secrets", operation, status)
	s.metrics.RecordDuration(ctx, "secrets", operation, time.Since(start), status)
}

func (s *secretUseCaseWithMetrics) Define(ctx context.Context, token string, input secretsDomain.DefineInput) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Define(ctx, token, input)
	s.record(ctx, "secret_define", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) LookupByUUID(ctx context.Context, token string, secretUUID uuid.UUID) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.LookupByUUID(ctx, token, secretUUID)
	s.record(ctx, "secret_lookup_by_uuid", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) LookupByUsage(ctx context.Context, token string, usageType secretsDomain.UsageType, usageID string) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.LookupByUsage(ctx, token, usageType, usageID)
	s.record(ctx, "secret_lookup_by_usage", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) List(ctx context.Context, token string) ([]uuid.UUID, error) {
	start := time.Now()
	uuids, err := s.next.List(ctx, token)
	s.record(ctx, "secret_list", start, err)
	return uuids, err
}

func (s *secretUseCaseWithMetrics) DescribeXML(ctx context.Context, token string, secretUUID uuid.UUID, opts secretsDomain.DescribeOptions) (string, error) {
	start := time.Now()
	xml, err := s.next.DescribeXML(ctx, token, secretUUID, opts)
	s.record(ctx, "secret_describe_xml", start, err)
	return xml, err
}

func (s *secretUseCaseWithMetrics) GetValue(ctx context.Context, token string, secretUUID uuid.UUID) ([]byte, error) {
	start := time.Now()
	value, err := s.next.GetValue(ctx, token, secretUUID)
	s.record(ctx, "secret_get_value", start, err)
	return value, err
}

func (s *secretUseCaseWithMetrics) SetValue(ctx context.Context, token string, secretUUID uuid.UUID, value []byte) error {
	start := time.Now()
	err := s.next.SetValue(ctx, token, secretUUID, value)
	s.record(ctx, "secret_set_value", start, err)
	return err
}

func (s *secretUseCaseWithMetrics) Undefine(ctx context.Context, token string, secretUUID uuid.UUID) error {
	start := time.Now()
	err := s.next.Undefine(ctx, token, secretUUID)
	s.record(ctx, "secret_undefine", start, err)
	return err
}
