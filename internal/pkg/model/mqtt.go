package model

type RegisterDevice struct {
	Name         string   `json:"name"`
	Identifiers  []string `json:"identifiers"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
}

// RegisterMessage is a Home Assistant MQTT discovery payload for a sensor.
type RegisterMessage struct {
	Tilda               string         `json:"~"`
	Name                string         `json:"name"`
	ID                  string         `json:"unique_id"`
	ObjectID            string         `json:"object_id"`
	StateTopic          string         `json:"state_topic"`
	AvailabilityTopic   string         `json:"availability_topic"`
	JSONAttributesTopic string         `json:"json_attributes_topic"`
	UnitOfMeasurement   string         `json:"unit_of_measurement,omitempty"`
	Icon                string         `json:"icon,omitempty"`
	StateClass          string         `json:"state_class,omitempty"`
	DeviceClass         string         `json:"device_class,omitempty"`
	Device              RegisterDevice `json:"device"`
}
