package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/anicoll/apsystems-integration/internal/pkg/model"
)

func (s *service) Write(ctx context.Context, readings model.Readings) error {
	for _, r := range readings {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.PublishReading(r); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) RegisterSensor(_ context.Context, sensor model.SensorInfo) error {
	id := uniqueID(sensor.Device.ID, sensor.Slug)

	s.mu.Lock()
	_, exists := s.configured[id]
	s.mu.Unlock()
	if exists {
		return nil
	}

	payload, err := json.Marshal(registerMsg(sensor))
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/sensor/%s/config", discoveryPrefix, id)
	if err := s.publish(topic, 1, true, payload, 5*time.Second); err != nil {
		return err
	}

	s.mu.Lock()
	s.configured[id] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("registered sensor", zap.String("topic", topic))
	return nil
}

// PublishReading sends availability, state and attributes for one reading.
// State and attributes are only sent when a value is present.
func (s *service) PublishReading(r model.Reading) error {
	base := baseTopic(uniqueID(r.Identifier, r.Slug))

	availability := payloadOffline
	if r.Online() {
		availability = payloadOnline
	}
	if err := s.publish(base+"/availability", 0, true, []byte(availability), 10*time.Second); err != nil {
		return err
	}
	if r.Value == nil {
		return nil
	}

	state := strconv.FormatFloat(*r.Value, 'f', -1, 64)
	if err := s.publish(base+"/state", 0, false, []byte(state), 10*time.Second); err != nil {
		return err
	}

	attrs := r.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	return s.publish(base+"/attributes", 0, false, data, 10*time.Second)
}

func (s *service) publish(topic string, qos byte, retained bool, payload []byte, timeout time.Duration) error {
	token := s.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	return token.Error()
}

func uniqueID(deviceID, sensorSlug string) string {
	return strings.ReplaceAll(slug.Make(fmt.Sprintf("apsystems %s %s", deviceID, sensorSlug)), "-", "_")
}

func baseTopic(id string) string {
	return fmt.Sprintf("%s/sensor/%s", discoveryPrefix, id)
}

func registerMsg(sensor model.SensorInfo) model.RegisterMessage {
	id := uniqueID(sensor.Device.ID, sensor.Slug)
	return model.RegisterMessage{
		Tilda:               baseTopic(id),
		Name:                sensor.Name,
		ID:                  id,
		ObjectID:            sensor.Name,
		StateTopic:          "~/state",
		AvailabilityTopic:   "~/availability",
		JSONAttributesTopic: "~/attributes",
		UnitOfMeasurement:   string(sensor.Metadata.Unit),
		Icon:                sensor.Metadata.Icon,
		StateClass:          string(sensor.Metadata.StateClass),
		DeviceClass:         string(sensor.Metadata.DeviceClass),
		Device: model.RegisterDevice{
			Name:         fmt.Sprintf("%s %s", sensor.Device.Model, sensor.Device.ID),
			Identifiers:  []string{sensor.Device.ID},
			Model:        sensor.Device.Model,
			Manufacturer: sensor.Device.Manufacturer,
		},
	}
}
