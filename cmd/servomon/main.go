package main

import (
	"context"
	"flag"
	"os"
	"reflect"
	"strings"

	"github.com/golang/glog"

	fx "github.com/robotalks/servo.go/pkg/framework"
	"github.com/robotalks/servo.go/pkg/msgs"
	"github.com/robotalks/servo.go/pkg/telemetry/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/servo/"
	topic   = "#"
)

func init() {
	if val := os.Getenv("SERVO_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&topic, "topic", topic, "Topic filter, e.g. DEVICE/events.")
}

func main() {
	flag.Parse()
	flag.Set("logtostderr", "true")

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		glog.Exit(err)
	}
	q.Sub(topic, mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/"+mqtt.TopicCommand) {
			glog.Infof("%s: %q", topic, payload)
			return
		}
		if len(payload) == 0 {
			glog.Infof("%s: (cleared)", topic)
			return
		}
		typed, msg, err := msgs.Decode(payload)
		if err != nil {
			glog.Warningf("%s: decode error: %v", topic, err)
			return
		}
		glog.Infof("%s: #%d [%s] %s", topic, typed.Sequence,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(), msg.String())
	}))
	fx.NewRunner().HandleSignals().Go(fx.RunFunc(func(ctx context.Context) error {
		if err := q.Connect(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return q.Close()
	})).WaitOrFail()
}
