package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"VidTube.com/cmd/infras"
	"VidTube.com/config"
	"VidTube.com/pkg/mq"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/sirupsen/logrus"
)

// 延迟级联的消费者：从 RabbitMQ 读取事件并重放依赖清理
func main() {
	config.Init()
	hlog.SetLevel(hlog.LevelInfo)

	r := config.ConfigInfo.RabbitMq
	if r.Addr == "" {
		logrus.Fatal("rabbitmq.addr is required for the cascade consumer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 消费者自身不再延迟级联，失败的事件交给队列重投
	inf, err := infras.Load(ctx, false)
	if err != nil {
		logrus.Fatalf("load infras: %v", err)
	}
	defer inf.Close()

	consumer, err := mq.NewConsumer(mq.URL(r.Addr, r.Username, r.Password))
	if err != nil {
		logrus.Fatalf("connect rabbitmq: %v", err)
	}
	defer consumer.Close()

	done := make(chan error, 1)
	go func() {
		done <- consumer.ConsumeCascadeEvents(ctx, inf.Service.Cascade)
	}()
	hlog.Info("Cascade consumer started, waiting for messages...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		hlog.Info("Shutting down cascade consumer...")
		cancel()
		<-done
	case err := <-done:
		if err != nil {
			hlog.Errorf("cascade consumer stopped: %v", err)
		}
	}
	hlog.Info("Cascade consumer stopped")
}
