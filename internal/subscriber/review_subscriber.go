package subscriber

import (
	"context"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/sirupsen/logrus"

	"github.com/coursehub/coursehub-api/internal/common/logging"
	"github.com/coursehub/coursehub-api/internal/domain"
	"github.com/coursehub/coursehub-api/internal/usecase/port"
)

// moderationThreshold: reviews rated at or below this are flagged.
const moderationThreshold = 2

// ReviewSubscriber reacts to created reviews.
type ReviewSubscriber struct {
	logger *logrus.Logger
	statsd statsd.ClientInterface
}

// NewReviewSubscriber creates a ReviewSubscriber.
func NewReviewSubscriber(logger *logrus.Logger, statsdClient statsd.ClientInterface) *ReviewSubscriber {
	if statsdClient == nil {
		statsdClient = &statsd.NoOpClient{}
	}
	return &ReviewSubscriber{
		logger: logger,
		statsd: statsdClient,
	}
}

// Register subscribes the handlers on bus.
func (s *ReviewSubscriber) Register(bus port.EventBus) {
	bus.Subscribe(domain.EventReviewCreated, s.handleReviewCreated)
}

func (s *ReviewSubscriber) handleReviewCreated(ctx context.Context, payload any) error {
	data, ok := payload.(domain.ReviewCreatedPayload)
	if !ok {
		return nil
	}

	_ = s.statsd.Incr("review.created", []string{"course:" + data.CourseID}, 1)

	logging.LogWithTrace(ctx, s.logger, "subscriber", "New review received", logrus.Fields{
		"course.id":     data.CourseID,
		"review.rating": data.Rating,
	})
	logging.LogWithTrace(ctx, s.logger, "subscriber", "Recalculating course average rating", logrus.Fields{
		"course.id": data.CourseID,
	})
	logging.LogWithTrace(ctx, s.logger, "subscriber", "Notifying course instructor", logrus.Fields{
		"course.id": data.CourseID,
	})

	if data.Rating <= moderationThreshold {
		_ = s.statsd.Incr("review.moderation_flagged", []string{"course:" + data.CourseID}, 1)
		logging.LogWarnWithTrace(ctx, s.logger, "subscriber", "Low rating - flagged for moderation", logrus.Fields{
			"course.id":     data.CourseID,
			"review.rating": data.Rating,
		})
	}
	return nil
}
