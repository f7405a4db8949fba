package infras

import (
	"context"
	"fmt"

	"VidTube.com/cmd/dal/backend"
	"VidTube.com/cmd/service"
	"VidTube.com/config"
	"VidTube.com/pkg/constants"
	"VidTube.com/pkg/lock"
	"VidTube.com/pkg/mq"
	"VidTube.com/pkg/oss"
	"VidTube.com/pkg/search"
	"VidTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Infra 网关和消费者共用的依赖，地址为空的外部组件不启用
type Infra struct {
	Service *service.Service
	// Queue 未配置 RabbitMQ 时的进程内级联队列，需要调用方启动
	Queue *mq.LocalQueue

	closers []func() error
}

// Load withDeferrer 为 false 时不挂载级联延迟队列，消费者自身使用
func Load(ctx context.Context, withDeferrer bool) (*Infra, error) {
	inf := &Infra{}
	store, err := backend.Open()
	if err != nil {
		return nil, err
	}
	idGen, err := utils.NewSnowflakeFromNode(config.ConfigInfo.Server.NodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake: %w", err)
	}

	deps := service.Deps{
		Store: store,
		IDGen: idGen,
		Options: service.Options{
			StoreTimeout: config.StoreTimeout(constants.DefaultStoreTimeout),
			MaxHistory:   config.ConfigInfo.History.MaxItems,
		},
	}

	if addr := config.ConfigInfo.Redis.Addr; addr != "" {
		client, err := lock.NewRedisClient(addr, config.ConfigInfo.Redis.Password)
		if err != nil {
			inf.Close()
			return nil, err
		}
		inf.closers = append(inf.closers, client.Close)
		deps.Locker = lock.NewRedisLocker(client)
		hlog.Infof("Toggle locks backed by redis %s", addr)
	}

	if m := config.ConfigInfo.Minio; m.Endpoint != "" {
		blobs, err := oss.NewMinioStore(ctx, oss.MinioConfig{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Bucket:    m.Bucket,
			UseSSL:    m.UseSSL,
		})
		if err != nil {
			inf.Close()
			return nil, err
		}
		deps.Blobs = blobs
	} else {
		hlog.Warn("minio endpoint not configured, uploads are kept in memory")
		deps.Blobs = oss.NewMemoryStore()
	}

	if addr := config.ConfigInfo.Elastic.Addr; addr != "" {
		index, err := search.NewElasticIndex(addr, constants.VideoIndexName)
		if err != nil {
			inf.Close()
			return nil, err
		}
		if err := index.EnsureIndex(ctx); err != nil {
			inf.Close()
			return nil, err
		}
		deps.Index = index
	}

	if withDeferrer {
		if r := config.ConfigInfo.RabbitMq; r.Addr != "" {
			producer, err := mq.NewProducer(mq.URL(r.Addr, r.Username, r.Password))
			if err != nil {
				inf.Close()
				return nil, err
			}
			inf.closers = append(inf.closers, producer.Close)
			deps.Deferrer = producer
		} else {
			inf.Queue = mq.NewLocalQueue(1024)
			deps.Deferrer = inf.Queue
		}
	}

	inf.Service = service.New(deps)
	return inf, nil
}

func (i *Infra) Close() {
	for j := len(i.closers) - 1; j >= 0; j-- {
		if err := i.closers[j](); err != nil {
			hlog.Warnf("close infra: %v", err)
		}
	}
	i.closers = nil
}
