package main

import (
	"context"
	"time"

	"VidTube.com/cmd/api/handlers"
	"VidTube.com/cmd/api/mw"
	"VidTube.com/cmd/infras"
	"VidTube.com/config"
	"VidTube.com/config/pprof"
	"VidTube.com/pkg/constants"
	"VidTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/cors"
)

func main() {
	config.Init()
	pprof.Load(config.ConfigInfo.Server.PprofAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inf, err := infras.Load(ctx, true)
	if err != nil {
		hlog.Fatalf("load infras: %v", err)
	}
	defer inf.Close()
	if inf.Queue != nil {
		hlog.Warn("rabbitmq not configured, deferred cascades run in process")
		go inf.Queue.Run(ctx, inf.Service.Cascade)
	}

	auth, err := mw.NewAuth(inf.Service, config.ConfigInfo.Jwt.Secret, config.JwtTimeout(24*time.Hour))
	if err != nil {
		hlog.Fatalf("init jwt: %v", err)
	}
	if err := mw.InitSentinel(config.ConfigInfo.Sentinel.ToggleQPS); err != nil {
		hlog.Fatalf("init sentinel: %v", err)
	}

	r := server.New(
		server.WithHostPorts(config.ConfigInfo.Server.Addr),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(1024*1024*1024),
	)

	// 配置 CORS
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 错误处理
	r.Use(recovery.Recovery(recovery.WithRecoveryHandler(
		func(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
			hlog.SystemLogger().CtxErrorf(ctx, "[Recovery] err=%v\nstack=%s", err, stack)
			c.JSON(consts.StatusInternalServerError, map[string]interface{}{
				"code":    errno.ServiceErrCode,
				"message": errno.ServiceErr.ErrMsg,
			})
		})))

	register(r, handlers.New(inf.Service), auth, mw.FlowControl(constants.ToggleResource))
	r.Spin()
}
