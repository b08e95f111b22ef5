package service

import (
	"context"
	"time"

	"reviewlens/internal/analytics"
	"reviewlens/internal/classifier"
	"reviewlens/internal/microservices/http-api/models"
	"reviewlens/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/mock"
)

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) List(ctx context.Context, orgID string, filters repository.ReviewFilters) ([]models.Review, int64, error) {
	args := m.Called(ctx, orgID, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) Recent(ctx context.Context, orgID string, limit int) ([]models.Review, error) {
	args := m.Called(ctx, orgID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListForOrg(ctx context.Context, orgID string, limit int) ([]models.Review, error) {
	args := m.Called(ctx, orgID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, orgID, reviewID string) (*models.Review, error) {
	args := m.Called(ctx, orgID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) BulkCreate(ctx context.Context, reviews []models.Review) error {
	args := m.Called(ctx, reviews)
	return args.Error(0)
}

func (m *MockReviewRepository) EnsureSource(ctx context.Context, orgID, name string) (*models.ReviewSource, error) {
	args := m.Called(ctx, orgID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewSource), args.Error(1)
}

func (m *MockReviewRepository) ListSources(ctx context.Context, orgID string) ([]models.ReviewSource, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewSource), args.Error(1)
}

// MockAspectScoreRepository mocks the AspectScoreRepository interface
type MockAspectScoreRepository struct {
	mock.Mock
}

func (m *MockAspectScoreRepository) ReplaceForReview(ctx context.Context, reviewID string, scores []analytics.AspectScore) error {
	args := m.Called(ctx, reviewID, scores)
	return args.Error(0)
}

func (m *MockAspectScoreRepository) ListForOrg(ctx context.Context, orgID string) ([]analytics.AspectScore, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.AspectScore), args.Error(1)
}

func (m *MockAspectScoreRepository) CountsForOrg(ctx context.Context, orgID string, since, until time.Time) ([]analytics.AspectSentimentCount, error) {
	args := m.Called(ctx, orgID, since, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.AspectSentimentCount), args.Error(1)
}

// MockUsageRepository mocks the UsageRepository interface
type MockUsageRepository struct {
	mock.Mock
}

func (m *MockUsageRepository) LogEvent(ctx context.Context, event *models.UsageEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockUsageRepository) LogAI(ctx context.Context, entry *models.AILog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockReportRepository mocks the ReportRepository interface
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) RatingTrends(ctx context.Context, orgID string, since time.Time) ([]repository.RatingTrendPoint, error) {
	args := m.Called(ctx, orgID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.RatingTrendPoint), args.Error(1)
}

func (m *MockReportRepository) UsageStats(ctx context.Context, orgID string, since time.Time) (map[string]repository.UsageTotal, error) {
	args := m.Called(ctx, orgID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]repository.UsageTotal), args.Error(1)
}

// MockInsightRepository mocks the InsightRepository interface
type MockInsightRepository struct {
	mock.Mock
}

func (m *MockInsightRepository) List(ctx context.Context, orgID string, limit int) ([]models.Insight, error) {
	args := m.Called(ctx, orgID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Insight), args.Error(1)
}

func (m *MockInsightRepository) Create(ctx context.Context, insight *models.Insight) error {
	args := m.Called(ctx, insight)
	return args.Error(0)
}

// MockOrganizationRepository mocks the OrganizationRepository interface
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) IsMember(ctx context.Context, orgID, userID string) (bool, error) {
	args := m.Called(ctx, orgID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrganizationRepository) ListForUser(ctx context.Context, userID string) ([]models.Organization, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *models.Organization, ownerID string) error {
	args := m.Called(ctx, org, ownerID)
	return args.Error(0)
}

// MockCreatorRepository mocks the CreatorRepository interface
type MockCreatorRepository struct {
	mock.Mock
}

func (m *MockCreatorRepository) List(ctx context.Context, filters repository.CreatorFilters) ([]models.CreatorProfile, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CreatorProfile), args.Error(1)
}

func (m *MockCreatorRepository) GetByID(ctx context.Context, id string) (*models.CreatorProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreatorProfile), args.Error(1)
}

func (m *MockCreatorRepository) GetByUserID(ctx context.Context, userID string) (*models.CreatorProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreatorProfile), args.Error(1)
}

func (m *MockCreatorRepository) Save(ctx context.Context, profile *models.CreatorProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockCreatorRepository) AddToShortlist(ctx context.Context, orgID, creatorID string) error {
	args := m.Called(ctx, orgID, creatorID)
	return args.Error(0)
}

func (m *MockCreatorRepository) RemoveFromShortlist(ctx context.Context, orgID, creatorID string) error {
	args := m.Called(ctx, orgID, creatorID)
	return args.Error(0)
}

func (m *MockCreatorRepository) ListShortlist(ctx context.Context, orgID string) ([]models.Shortlist, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Shortlist), args.Error(1)
}

// MockTrainingRepository mocks the TrainingRepository interface
type MockTrainingRepository struct {
	mock.Mock
}

func (m *MockTrainingRepository) List(ctx context.Context, category string) ([]models.TrainingResource, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrainingResource), args.Error(1)
}

func (m *MockTrainingRepository) Create(ctx context.Context, resource *models.TrainingResource) error {
	args := m.Called(ctx, resource)
	return args.Error(0)
}

// MockClassifier mocks the classifier.Classifier interface
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) AnalyzeReview(ctx context.Context, text string) (*classifier.ReviewAnalysis, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classifier.ReviewAnalysis), args.Error(1)
}

func (m *MockClassifier) GenerateInsight(ctx context.Context, reviewTexts []string, aspects []analytics.Aspect) (*classifier.InsightDraft, error) {
	args := m.Called(ctx, reviewTexts, aspects)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classifier.InsightDraft), args.Error(1)
}

func (m *MockClassifier) WeeklyReport(ctx context.Context, in classifier.ReportInput) (*classifier.Report, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classifier.Report), args.Error(1)
}

// MockQuota mocks the CallQuota interface
type MockQuota struct {
	mock.Mock
}

func (m *MockQuota) Reserve(ctx context.Context, orgID string) error {
	args := m.Called(ctx, orgID)
	return args.Error(0)
}

func (m *MockQuota) Today(ctx context.Context, orgID string) (int64, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuota) Limit() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

// permissiveUsageRepo accepts every log write
func permissiveUsageRepo() *MockUsageRepository {
	repo := new(MockUsageRepository)
	repo.On("LogEvent", mock.Anything, mock.Anything).Return(nil).Maybe()
	repo.On("LogAI", mock.Anything, mock.Anything).Return(nil).Maybe()
	return repo
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
