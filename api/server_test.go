package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/werego/werego-api/mocks"
)

func freePort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServeStopsOnCancel(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	gin.SetMode(gin.TestMode)
	port := freePort(t)
	viper.Set("server.port", port)
	defer viper.Set("server.port", 0)

	s := newTestServer(mocks.NewMockMongoStore(ctl))
	assert.Equal(t, "http-server", s.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	served := make(chan error, 1)
	go func() { served <- s.Serve(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/metrics", port)
	assert.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond, "server never came up")

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}

	_, err := http.Get(url)
	assert.Error(t, err, "server still accepting connections")
}

func TestShutdownBeforeServe(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := newTestServer(mocks.NewMockMongoStore(ctl))
	assert.NoError(t, s.Shutdown(context.Background()))
}
