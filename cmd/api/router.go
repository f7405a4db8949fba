package main

import (
	"context"

	"VidTube.com/cmd/api/handlers"
	"VidTube.com/cmd/api/mw"
	"VidTube.com/cmd/model"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// register toggle 是点赞和订阅切换接口前的限流中间件
func register(r *server.Hertz, h *handlers.Handler, auth *mw.Auth, toggle app.HandlerFunc) {
	r.GET("/ping", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]string{"message": "pong"})
	})
	r.GET("/metrics", adaptor.HertzHandler(promhttp.Handler()))
	routes(r.Group("/api/v1"), h, auth, toggle)
}

func routes(v1 *route.RouterGroup, h *handlers.Handler, auth *mw.Auth, toggle app.HandlerFunc) {
	v1.POST("/users/register", h.Register)
	v1.POST("/users/login", auth.LoginHandler)
	v1.POST("/users/refresh-token", auth.RefreshHandler)

	api := v1.Group("", mw.Identity(auth))

	users := api.Group("/users")
	users.POST("/logout", h.Logout)
	users.GET("/current-user", h.CurrentUser)
	users.PATCH("/update-account", h.UpdateAccount)
	users.POST("/change-password", h.ChangePassword)
	users.PATCH("/avatar", h.UpdateAvatar)
	users.PATCH("/cover-image", h.UpdateCover)
	users.DELETE("/account", h.DeleteAccount)
	users.GET("/c/:username", h.ChannelProfile)
	users.GET("/history", h.WatchHistory)

	videos := api.Group("/videos")
	videos.GET("", h.VideoFeed)
	videos.POST("", h.PublishVideo)
	videos.GET("/:videoId", h.VideoDetail)
	videos.PATCH("/:videoId", h.UpdateVideo)
	videos.DELETE("/:videoId", h.DeleteVideo)
	videos.PATCH("/toggle/publish/:videoId", h.TogglePublish)
	videos.POST("/:videoId/views", h.RecordView)

	comments := api.Group("/comments")
	comments.GET("/:videoId", h.VideoComments)
	comments.POST("/:videoId", h.AddComment)
	comments.PATCH("/c/:commentId", h.UpdateComment)
	comments.DELETE("/c/:commentId", h.DeleteComment)

	tweets := api.Group("/tweets")
	tweets.POST("", h.CreateTweet)
	tweets.GET("/user/:userId", h.UserTweets)
	tweets.PATCH("/:tweetId", h.UpdateTweet)
	tweets.DELETE("/:tweetId", h.DeleteTweet)

	likes := api.Group("/likes")
	likes.POST("/toggle/v/:videoId", toggle, h.ToggleLike(model.TargetVideo, "videoId"))
	likes.POST("/toggle/c/:commentId", toggle, h.ToggleLike(model.TargetComment, "commentId"))
	likes.POST("/toggle/t/:tweetId", toggle, h.ToggleLike(model.TargetTweet, "tweetId"))
	likes.GET("/videos", h.LikedVideos)

	subs := api.Group("/subscriptions")
	subs.POST("/c/:channelId", toggle, h.ToggleSubscription)
	subs.GET("/c/:channelId", h.ChannelSubscribers)
	subs.GET("/u", h.SubscribedChannels)

	dashboard := api.Group("/dashboard")
	dashboard.GET("/stats/:channelId", h.ChannelStats)
	dashboard.GET("/videos/:channelId", h.ChannelVideos)

	playlists := api.Group("/playlists")
	playlists.POST("", h.CreatePlaylist)
	playlists.GET("/:playlistId", h.PlaylistDetail)
	playlists.PATCH("/:playlistId", h.UpdatePlaylist)
	playlists.DELETE("/:playlistId", h.DeletePlaylist)
	playlists.PATCH("/add/:videoId/:playlistId", h.AddPlaylistVideo)
	playlists.PATCH("/remove/:videoId/:playlistId", h.RemovePlaylistVideo)
	playlists.GET("/user/:userId", h.UserPlaylists)
}
