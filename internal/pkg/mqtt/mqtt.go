package mqtt

import (
	"errors"
	"sync"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const (
	discoveryPrefix = "homeassistant"

	payloadOnline  = "online"
	payloadOffline = "offline"
)

type service struct {
	client     paho_mqtt.Client
	logger     *zap.Logger
	mu         sync.Mutex
	configured map[string]struct{}
}

func New(client paho_mqtt.Client) *service {
	return &service{
		client:     client,
		logger:     zap.L(),
		configured: make(map[string]struct{}),
	}
}

// NewClient builds a paho client for host, e.g. tcp://broker:1883.
func NewClient(host, username, password, clientID string) paho_mqtt.Client {
	opts := paho_mqtt.NewClientOptions().
		AddBroker(host).
		SetClientID(clientID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)
	return paho_mqtt.NewClient(opts)
}

func (s *service) Connect() error {
	token := s.client.Connect()
	res := token.WaitTimeout(time.Second * 5)
	if err := token.Error(); err != nil {
		return err
	}
	if res {
		return nil
	}
	return errors.New("unable to connect in time")
}

func (s *service) Disconnect() {
	s.client.Disconnect(250)
}
