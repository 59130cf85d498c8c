package worker

import (
	"context"
	"encoding/json"

	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/service/hospital"
	"github.com/medicore/hms-api/pkg/logger"
	"github.com/medicore/hms-api/pkg/messaging"
	"github.com/medicore/hms-api/pkg/metrics"
)

// rosterChannels are the event types whose payloads change what the
// hospital aggregate projects.
var rosterChannels = []string{
	model.EventDepartmentChanged,
	model.EventDoctorChanged,
	model.EventPatientRegistered,
	model.EventPatientChanged,
}

// RosterSync replays roster events against the hospital projection.
// The API already rebuilds synchronously on writes; this consumer is
// the safety net for rebuilds that failed in-line.
type RosterSync struct {
	broker      messaging.Broker
	hospitalSvc *hospital.Service
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

func NewRosterSync(broker messaging.Broker, hospitalSvc *hospital.Service,
	logger *logger.Logger, metrics *metrics.Metrics) *RosterSync {
	return &RosterSync{
		broker:      broker,
		hospitalSvc: hospitalSvc,
		logger:      logger,
		metrics:     metrics,
	}
}

func (s *RosterSync) Start(ctx context.Context) error {
	for _, channel := range rosterChannels {
		messages, err := s.broker.Subscribe(ctx, channel)
		if err != nil {
			return err
		}
		go s.consume(ctx, channel, messages)
	}

	s.logger.Info("roster sync started", "channels", len(rosterChannels))
	<-ctx.Done()
	return nil
}

func (s *RosterSync) consume(ctx context.Context, channel string, messages <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-messages:
			if !ok {
				return
			}
			s.handle(ctx, channel, raw)
		}
	}
}

func (s *RosterSync) handle(ctx context.Context, channel string, raw []byte) {
	var event model.OutboxEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		s.logger.Error(err, "failed to decode roster event", "channel", channel)
		return
	}

	if _, err := s.hospitalSvc.RebuildProjection(ctx, event.HospitalID); err != nil {
		s.metrics.ProjectionRebuildErrors.Inc()
		s.logger.Error(err, "failed to rebuild hospital projection",
			"hospital_id", event.HospitalID.String(),
			"event_type", event.EventType)
		return
	}

	s.metrics.ProjectionRebuilds.WithLabelValues(event.EventType).Inc()
}
