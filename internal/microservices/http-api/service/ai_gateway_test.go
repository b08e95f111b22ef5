package service

import (
	"context"
	"errors"
	"testing"

	"reviewlens/internal/classifier"
	"reviewlens/internal/microservices/http-api/models"
	"reviewlens/internal/usage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAIGateway_QuotaExceededSkipsClassifier(t *testing.T) {
	c := new(MockClassifier)
	quota := new(MockQuota)
	usageRepo := new(MockUsageRepository)
	gw := NewAIGateway(c, quota, usageRepo, nil)

	quota.On("Reserve", mock.Anything, "org-1").Return(usage.ErrLimitExceeded)

	result, err := gw.AnalyzeReview(context.Background(), "org-1", "Great stay")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	c.AssertNotCalled(t, "AnalyzeReview", mock.Anything, mock.Anything)
	usageRepo.AssertNotCalled(t, "LogAI", mock.Anything, mock.Anything)
}

func TestAIGateway_CounterFailureDoesNotBlock(t *testing.T) {
	c := new(MockClassifier)
	quota := new(MockQuota)
	gw := NewAIGateway(c, quota, permissiveUsageRepo(), nil)

	quota.On("Reserve", mock.Anything, "org-1").Return(errors.New("connection refused"))
	c.On("AnalyzeReview", mock.Anything, "Great stay").Return(&classifier.ReviewAnalysis{}, nil)

	result, err := gw.AnalyzeReview(context.Background(), "org-1", "Great stay")

	require.NoError(t, err)
	assert.NotNil(t, result)
	c.AssertExpectations(t)
}

func TestAIGateway_RecordsSuccessfulCall(t *testing.T) {
	c := new(MockClassifier)
	usageRepo := new(MockUsageRepository)
	gw := NewAIGateway(c, nil, usageRepo, nil)

	c.On("WeeklyReport", mock.Anything, mock.Anything).Return(&classifier.Report{
		Text: "All good",
		Call: classifier.CallInfo{Model: "gpt-4o", Prompt: "prompt", Response: "All good", TokensIn: 120, TokensOut: 30},
	}, nil)
	usageRepo.On("LogAI", mock.Anything, mock.MatchedBy(func(l *models.AILog) bool {
		return l.Success && l.Route == "weekly_report" && l.TokensIn == 120 && len(l.PromptHash) == 64
	})).Return(nil).Once()
	usageRepo.On("LogEvent", mock.Anything, mock.MatchedBy(func(e *models.UsageEvent) bool {
		return e.Type == models.UsageAICall && e.Tokens != nil && *e.Tokens == 150
	})).Return(nil).Once()

	report, err := gw.WeeklyReport(context.Background(), "org-1", classifier.ReportInput{OrganizationName: "Blue Lagoon Hotel"})

	require.NoError(t, err)
	assert.Equal(t, "All good", report.Text)
	usageRepo.AssertExpectations(t)
}

func TestAIGateway_RecordsFailedCall(t *testing.T) {
	c := new(MockClassifier)
	usageRepo := new(MockUsageRepository)
	gw := NewAIGateway(c, nil, usageRepo, nil)

	callErr := &classifier.Error{Op: "generate insight", Kind: classifier.ErrUnavailable}
	c.On("GenerateInsight", mock.Anything, mock.Anything, mock.Anything).Return(nil, callErr)
	usageRepo.On("LogAI", mock.Anything, mock.MatchedBy(func(l *models.AILog) bool { return !l.Success })).Return(nil).Once()
	usageRepo.On("LogEvent", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	draft, err := gw.GenerateInsight(context.Background(), "org-1", []string{"Slow check-in"}, nil)

	assert.Nil(t, draft)
	assert.ErrorIs(t, err, classifier.ErrUnavailable)
	usageRepo.AssertExpectations(t)
}
