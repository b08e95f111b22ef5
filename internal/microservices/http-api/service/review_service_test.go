package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"reviewlens/internal/analytics"
	"reviewlens/internal/classifier"
	"reviewlens/internal/microservices/http-api/models"
	"reviewlens/internal/microservices/http-api/repository"
	"reviewlens/internal/usage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const uploadCSV = `author,rating,text,source
Ann,5,Spotless rooms,Google
,abc,Friendly staff,
Bob,4,,Google
`

// expectBulkCreate assigns sequential ids the way the database would
func expectBulkCreate(repo *MockReviewRepository, n int) {
	repo.On("BulkCreate", mock.Anything, mock.MatchedBy(func(r []models.Review) bool { return len(r) == n })).
		Run(func(args mock.Arguments) {
			reviews := args.Get(1).([]models.Review)
			for i := range reviews {
				reviews[i].ID = fmt.Sprintf("r-%d", i+1)
			}
		}).
		Return(nil)
}

func newTestReviewService(reviewRepo *MockReviewRepository, aspectRepo *MockAspectScoreRepository, c classifier.Classifier, quota CallQuota, concurrency int) *reviewService {
	usageRepo := permissiveUsageRepo()
	svc := NewReviewService(reviewRepo, aspectRepo, usageRepo, NewAIGateway(c, quota, usageRepo, nil), concurrency, nil).(*reviewService)
	svc.now = fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	return svc
}

func TestUpload_StoresUsableRows(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	aspectRepo := new(MockAspectScoreRepository)
	svc := newTestReviewService(reviewRepo, aspectRepo, new(MockClassifier), nil, 2)

	reviewRepo.On("EnsureSource", mock.Anything, "org-1", "Google").Return(&models.ReviewSource{ID: "src-google"}, nil).Once()
	reviewRepo.On("EnsureSource", mock.Anything, "org-1", "CSV Upload").Return(&models.ReviewSource{ID: "src-csv"}, nil).Once()
	expectBulkCreate(reviewRepo, 2)

	resp, err := svc.Upload(context.Background(), "org-1", strings.NewReader(uploadCSV), false)

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, 0, resp.Classified)
	assert.Empty(t, resp.Failures)

	stored := reviewRepo.Calls[len(reviewRepo.Calls)-1].Arguments.Get(1).([]models.Review)
	assert.Equal(t, "src-google", stored[0].SourceID)
	assert.Equal(t, "Ann", *stored[0].Author)
	assert.Equal(t, "src-csv", stored[1].SourceID)
	assert.Equal(t, "Anonymous", *stored[1].Author)
	assert.Equal(t, 5, stored[1].Rating)
	reviewRepo.AssertExpectations(t)
	aspectRepo.AssertNotCalled(t, "ReplaceForReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_InvalidCSV(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	svc := newTestReviewService(reviewRepo, new(MockAspectScoreRepository), new(MockClassifier), nil, 1)

	resp, err := svc.Upload(context.Background(), "org-1", strings.NewReader("author,rating\nAnn,5\n"), false)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidInput)
	reviewRepo.AssertNotCalled(t, "BulkCreate", mock.Anything, mock.Anything)
}

func TestUpload_ClassifyReportsFailuresWithoutAborting(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	aspectRepo := new(MockAspectScoreRepository)
	c := new(MockClassifier)
	svc := newTestReviewService(reviewRepo, aspectRepo, c, nil, 2)

	reviewRepo.On("EnsureSource", mock.Anything, "org-1", mock.Anything).Return(&models.ReviewSource{ID: "src"}, nil)
	expectBulkCreate(reviewRepo, 2)

	c.On("AnalyzeReview", mock.Anything, "Spotless rooms").Return(&classifier.ReviewAnalysis{
		AspectScores: []classifier.AspectAnalysis{
			{Aspect: analytics.AspectCleanliness, Sentiment: analytics.SentimentPositive, Score: 92},
		},
	}, nil)
	c.On("AnalyzeReview", mock.Anything, "Friendly staff").
		Return(nil, &classifier.Error{Op: "analyze review", Kind: classifier.ErrMalformedResponse})
	aspectRepo.On("ReplaceForReview", mock.Anything, "r-1", []analytics.AspectScore{
		{ReviewID: "r-1", Aspect: analytics.AspectCleanliness, Sentiment: analytics.SentimentPositive, Score: 92},
	}).Return(nil).Once()

	resp, err := svc.Upload(context.Background(), "org-1", strings.NewReader(uploadCSV), true)

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 1, resp.Classified)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "r-2", resp.Failures[0].ReviewID)
	aspectRepo.AssertExpectations(t)
}

func TestUpload_ClassifyStopsWhenQuotaExhausted(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	aspectRepo := new(MockAspectScoreRepository)
	c := new(MockClassifier)
	quota := new(MockQuota)
	svc := newTestReviewService(reviewRepo, aspectRepo, c, quota, 1)

	reviewRepo.On("EnsureSource", mock.Anything, "org-1", mock.Anything).Return(&models.ReviewSource{ID: "src"}, nil)
	expectBulkCreate(reviewRepo, 2)
	quota.On("Reserve", mock.Anything, "org-1").Return(usage.ErrLimitExceeded)

	resp, err := svc.Upload(context.Background(), "org-1", strings.NewReader(uploadCSV), true)

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 0, resp.Classified)
	assert.Len(t, resp.Failures, 2)
	c.AssertNotCalled(t, "AnalyzeReview", mock.Anything, mock.Anything)
}

func TestUpload_ClassifyCapLeavesRestUnclassified(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	aspectRepo := new(MockAspectScoreRepository)
	c := new(MockClassifier)
	svc := newTestReviewService(reviewRepo, aspectRepo, c, nil, 2)
	svc.classifyCap = 1

	reviewRepo.On("EnsureSource", mock.Anything, "org-1", mock.Anything).Return(&models.ReviewSource{ID: "src"}, nil)
	expectBulkCreate(reviewRepo, 2)
	c.On("AnalyzeReview", mock.Anything, "Spotless rooms").Return(&classifier.ReviewAnalysis{}, nil).Once()
	aspectRepo.On("ReplaceForReview", mock.Anything, "r-1", mock.Anything).Return(nil).Once()

	resp, err := svc.Upload(context.Background(), "org-1", strings.NewReader(uploadCSV), true)

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 1, resp.Classified)
	assert.Equal(t, 1, resp.Unclassified)
	assert.Empty(t, resp.Failures)
	c.AssertNotCalled(t, "AnalyzeReview", mock.Anything, "Friendly staff")
}

func TestUpload_ClassifyBudgetSpentLeavesReviewsUnclassified(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	c := new(MockClassifier)
	svc := newTestReviewService(reviewRepo, new(MockAspectScoreRepository), c, nil, 1)
	svc.classifyBudget = time.Nanosecond

	reviewRepo.On("EnsureSource", mock.Anything, "org-1", mock.Anything).Return(&models.ReviewSource{ID: "src"}, nil)
	expectBulkCreate(reviewRepo, 2)

	resp, err := svc.Upload(context.Background(), "org-1", strings.NewReader(uploadCSV), true)

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 0, resp.Classified)
	assert.Equal(t, 2, resp.Unclassified)
	assert.Empty(t, resp.Failures)
	c.AssertNotCalled(t, "AnalyzeReview", mock.Anything, mock.Anything)
}

func TestClassify_NotFound(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	svc := newTestReviewService(reviewRepo, new(MockAspectScoreRepository), new(MockClassifier), nil, 1)

	reviewRepo.On("GetByID", mock.Anything, "org-1", "missing").Return(nil, gorm.ErrRecordNotFound)

	resp, err := svc.Classify(context.Background(), "org-1", "missing")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClassify_FailureStoresNothing(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	aspectRepo := new(MockAspectScoreRepository)
	c := new(MockClassifier)
	svc := newTestReviewService(reviewRepo, aspectRepo, c, nil, 1)

	reviewRepo.On("GetByID", mock.Anything, "org-1", "r-1").Return(&models.Review{ID: "r-1", Text: "Cold soup"}, nil)
	c.On("AnalyzeReview", mock.Anything, "Cold soup").
		Return(nil, &classifier.Error{Op: "analyze review", Kind: classifier.ErrTimeout})

	resp, err := svc.Classify(context.Background(), "org-1", "r-1")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, classifier.ErrTimeout)
	aspectRepo.AssertNotCalled(t, "ReplaceForReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestClassify_ReplacesScores(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	aspectRepo := new(MockAspectScoreRepository)
	c := new(MockClassifier)
	svc := newTestReviewService(reviewRepo, aspectRepo, c, nil, 1)

	labelled := &models.Review{
		ID:   "r-1",
		Text: "Cold soup",
		AspectScores: []models.AspectScore{
			{Aspect: "FOOD_QUALITY", Sentiment: "NEG", Score: 0.1},
		},
	}
	reviewRepo.On("GetByID", mock.Anything, "org-1", "r-1").Return(&models.Review{ID: "r-1", Text: "Cold soup"}, nil).Once()
	reviewRepo.On("GetByID", mock.Anything, "org-1", "r-1").Return(labelled, nil).Once()
	c.On("AnalyzeReview", mock.Anything, "Cold soup").Return(&classifier.ReviewAnalysis{
		AspectScores: []classifier.AspectAnalysis{
			{Aspect: analytics.AspectFoodQuality, Sentiment: analytics.SentimentNegative, Score: 10},
		},
	}, nil)
	aspectRepo.On("ReplaceForReview", mock.Anything, "r-1", mock.Anything).Return(nil)

	resp, err := svc.Classify(context.Background(), "org-1", "r-1")

	require.NoError(t, err)
	assert.Equal(t, analytics.OverallNegative, resp.Sentiment)
	require.Len(t, resp.AspectScores, 1)
	assert.InDelta(t, 10, resp.AspectScores[0].Score, 0.001)
}

func TestList_DefaultsPaging(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	svc := newTestReviewService(reviewRepo, new(MockAspectScoreRepository), new(MockClassifier), nil, 1)

	reviewRepo.On("List", mock.Anything, "org-1", mock.MatchedBy(func(f repository.ReviewFilters) bool {
		return f.Page == 1 && f.PageSize == 20
	})).Return([]models.Review{{ID: "r-1", Rating: 4}}, int64(41), nil)

	resp, err := svc.List(context.Background(), "org-1", repository.ReviewFilters{PageSize: 500})

	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, analytics.OverallNeutral, resp.Data[0].Sentiment)
	assert.Equal(t, 3, resp.TotalPages)
}
