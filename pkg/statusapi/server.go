// Package statusapi 通过 HTTP 暴露模拟的只读状态
package statusapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gonewx/zombiewash/pkg/simulation"
	log "github.com/sirupsen/logrus"
)

// shutdownTimeout 优雅关闭的最长等待时间
const shutdownTimeout = 5 * time.Second

// Server 状态接口服务
type Server struct {
	engine *gin.Engine
	holder *simulation.SnapshotHolder
}

// New 创建状态接口并注册路由
// release 为 true 时 gin 使用 ReleaseMode
func New(holder *simulation.SnapshotHolder, release bool) *Server {
	if release {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery())

	s := &Server{
		engine: r,
		holder: holder,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.engine
	r.GET("/healthz", s.health)
	r.GET("/snapshot", s.snapshot)
	r.GET("/snapshot/customers", s.customers)
}

// Handler 供测试和自定义 http.Server 使用
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) snapshot(c *gin.Context) {
	snap, ok := s.holder.Load()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "simulation has not produced a snapshot yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// customers 只返回顾客列表，可用 ?state=Angry 过滤
func (s *Server) customers(c *gin.Context) {
	snap, ok := s.holder.Load()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "simulation has not produced a snapshot yet"})
		return
	}

	state := c.Query("state")
	out := make([]simulation.CustomerView, 0, len(snap.Customers))
	for _, cv := range snap.Customers {
		if state == "" || cv.State == state {
			out = append(out, cv)
		}
	}
	c.JSON(http.StatusOK, out)
}

// Serve 监听 address 直到 ctx 结束，然后优雅关闭
func (s *Server) Serve(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info(fmt.Sprintf("status server starting at: %s", address))
	srvError := make(chan error, 1)
	go func() {
		srvError <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("status server is shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-srvError:
		return err
	}
}
