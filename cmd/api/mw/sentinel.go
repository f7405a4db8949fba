package mw

import (
	"context"

	"VidTube.com/cmd/api/handlers"
	"VidTube.com/pkg/constants"
	"VidTube.com/pkg/errno"
	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// InitSentinel 为点赞和订阅切换加 QPS 限流，qps<=0 不限流
func InitSentinel(qps float64) error {
	if err := sentinel.InitDefault(); err != nil {
		return err
	}
	if qps <= 0 {
		return nil
	}
	_, err := flow.LoadRules([]*flow.Rule{
		{
			Resource:               constants.ToggleResource,
			TokenCalculateStrategy: flow.Direct,
			ControlBehavior:        flow.Reject,
			Threshold:              qps,
			StatIntervalInMs:       1000,
		},
	})
	return err
}

func FlowControl(resource string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		e, b := sentinel.Entry(resource, sentinel.WithTrafficType(base.Inbound))
		if b != nil {
			hlog.CtxWarnf(ctx, "%s blocked by flow control: %s", resource, b.BlockMsg())
			handlers.SendResponse(c, errno.TooManyRequests, nil)
			c.Abort()
			return
		}
		defer e.Exit()
		c.Next(ctx)
	}
}
