// Package subscriber holds the side-effect handlers registered on the
// notification bus at startup. The effects are best-effort stand-ins (log
// lines plus statsd counters) for email, analytics, certificate and
// moderation integrations. A failing handler is the bus's problem to
// contain; nothing here ever reaches the publisher.
package subscriber

import (
	"context"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/sirupsen/logrus"

	"github.com/coursehub/coursehub-api/internal/common/logging"
	"github.com/coursehub/coursehub-api/internal/domain"
	"github.com/coursehub/coursehub-api/internal/usecase/port"
)

// EnrollmentSubscriber reacts to enrollment and progress events.
type EnrollmentSubscriber struct {
	logger *logrus.Logger
	statsd statsd.ClientInterface
}

// NewEnrollmentSubscriber creates an EnrollmentSubscriber.
func NewEnrollmentSubscriber(logger *logrus.Logger, statsdClient statsd.ClientInterface) *EnrollmentSubscriber {
	if statsdClient == nil {
		statsdClient = &statsd.NoOpClient{}
	}
	return &EnrollmentSubscriber{
		logger: logger,
		statsd: statsdClient,
	}
}

// Register subscribes the handlers on bus.
func (s *EnrollmentSubscriber) Register(bus port.EventBus) {
	bus.Subscribe(domain.EventCourseEnrolled, s.handleEnrollment)
	bus.Subscribe(domain.EventCourseCompleted, s.handleCompletion)
	bus.Subscribe(domain.EventLessonCompleted, s.handleLessonCompletion)
}

func (s *EnrollmentSubscriber) handleEnrollment(ctx context.Context, payload any) error {
	data, ok := payload.(domain.CourseEnrolledPayload)
	if !ok {
		return nil
	}

	_ = s.statsd.Incr("enrollment.created", []string{"course:" + data.CourseID}, 1)

	logging.LogWithTrace(ctx, s.logger, "subscriber", "Sending welcome email", logrus.Fields{
		"user.id":     data.UserID,
		"course.name": data.CourseName,
	})
	logging.LogWithTrace(ctx, s.logger, "subscriber", "Updating enrollment statistics", logrus.Fields{
		"course.id": data.CourseID,
	})
	logging.LogWithTrace(ctx, s.logger, "subscriber", "Notifying instructor about new student", logrus.Fields{
		"course.id": data.CourseID,
	})
	return nil
}

func (s *EnrollmentSubscriber) handleCompletion(ctx context.Context, payload any) error {
	data, ok := payload.(domain.CourseCompletedPayload)
	if !ok {
		return nil
	}

	_ = s.statsd.Incr("course.completed", []string{"course:" + data.CourseID}, 1)

	logging.LogWithTrace(ctx, s.logger, "subscriber", "Generating completion certificate", logrus.Fields{
		"user.id":   data.UserID,
		"course.id": data.CourseID,
	})
	return nil
}

func (s *EnrollmentSubscriber) handleLessonCompletion(ctx context.Context, payload any) error {
	data, ok := payload.(domain.LessonCompletedPayload)
	if !ok {
		return nil
	}

	logging.LogWithTrace(ctx, s.logger, "subscriber", "Updating lesson progress", logrus.Fields{
		"user.id":   data.UserID,
		"lesson.id": data.LessonID,
		"progress":  data.Progress,
	})

	switch data.Progress {
	case 25, 50, 75:
		_ = s.statsd.Incr("progress.milestone", []string{"milestone:" + milestoneName(data.Progress)}, 1)
		logging.LogWithTrace(ctx, s.logger, "subscriber", "Achievement unlocked", logrus.Fields{
			"user.id":   data.UserID,
			"milestone": milestoneName(data.Progress),
		})
	}
	return nil
}

func milestoneName(progress int) string {
	switch progress {
	case 25:
		return "quarter"
	case 50:
		return "halfway"
	case 75:
		return "almost-done"
	default:
		return "none"
	}
}
