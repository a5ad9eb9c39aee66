package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/golang/glog"

	"github.com/smaato/prebid-smaato-adapter/config"
	"github.com/smaato/prebid-smaato-adapter/metrics"
	metricsconfig "github.com/smaato/prebid-smaato-adapter/metrics/config"
)

// Listen blocks forever, serving adapter requests on the given port. This will block forever, until the process is shut down.
func Listen(cfg *config.Configuration, handler http.Handler, adminHandler http.Handler, metricsEngine *metricsconfig.DetailedMetricsEngine) (err error) {
	stopSignals := make(chan os.Signal, 1)
	signal.Notify(stopSignals, syscall.SIGTERM, syscall.SIGINT)

	// Run the servers. Fan any process-stopper signals out to each server for graceful shutdowns.
	stopAdmin := make(chan os.Signal)
	stopMain := make(chan os.Signal)
	stopPrometheus := make(chan os.Signal)
	done := make(chan struct{})

	mainServer := newMainServer(cfg, handler)
	mainListener, err := newTCPListener(mainServer.Addr, metricsEngine)
	if err != nil {
		glog.Errorf("Error listening for TCP connections on %s: %v for main server", mainServer.Addr, err)
		return
	}
	go shutdownAfterSignals(mainServer, stopMain, done)
	go runServer(mainServer, "Main", mainListener)

	adminServer := newAdminServer(cfg, adminHandler)
	adminListener, err := newTCPListener(adminServer.Addr, nil)
	if err != nil {
		glog.Errorf("Error listening for TCP connections on %s: %v for admin server", adminServer.Addr, err)
		stopMain <- os.Interrupt
		<-done
		return
	}
	go shutdownAfterSignals(adminServer, stopAdmin, done)
	go runServer(adminServer, "Admin", adminListener)

	if cfg.Metrics.Prometheus.Port != 0 {
		prometheusServer := newPrometheusServer(cfg, metricsEngine)
		prometheusListener, err := newTCPListener(prometheusServer.Addr, nil)
		if err != nil {
			glog.Errorf("Error listening for TCP connections on %s: %v for prometheus server", prometheusServer.Addr, err)
			go sendSignal(stopMain, os.Interrupt)
			go sendSignal(stopAdmin, os.Interrupt)
			<-done
			<-done
			return err
		}
		go shutdownAfterSignals(prometheusServer, stopPrometheus, done)
		go runServer(prometheusServer, "Prometheus", prometheusListener)

		wait(stopSignals, done, stopMain, stopAdmin, stopPrometheus)
	} else {
		wait(stopSignals, done, stopMain, stopAdmin)
	}
	return
}

func newAdminServer(cfg *config.Configuration, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:    cfg.Host + ":" + strconv.Itoa(cfg.AdminPort),
		Handler: handler,
	}
}

func newMainServer(cfg *config.Configuration, handler http.Handler) *http.Server {
	var serverHandler = handler
	if cfg.EnableGzip {
		serverHandler = gziphandler.GzipHandler(handler)
	}

	return &http.Server{
		Addr:         cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Handler:      serverHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
}

func runServer(server *http.Server, name string, listener net.Listener) (err error) {
	if server == nil {
		err = errors.New("server is nil")
		glog.Errorf("%s server quit with error: %v", name, err)
		return
	} else if listener == nil {
		err = errors.New("listener is nil")
		glog.Errorf("%s server quit with error: %v", name, err)
		return
	}

	glog.Infof("%s server starting on: %s", name, server.Addr)
	if err = server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		glog.Errorf("%s server quit with error: %v", name, err)
	}
	return
}

func newTCPListener(address string, metricsEngine metrics.MetricsEngine) (net.Listener, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("Error listening for TCP connections on %s: %v", address, err)
	}

	// This cast is in Go's core libs as Server.ListenAndServe(), so it _should_ be safe, but just in case it changes in a future version...
	if casted, ok := ln.(*net.TCPListener); ok {
		ln = &tcpKeepAliveListener{casted}
	} else {
		glog.Warning("net.Listen(\"tcp\", \"addr\") didn't return a TCPListener. Things will probably work fine... but this should be investigated.")
	}

	if metricsEngine != nil {
		ln = &monitorableListener{ln, metricsEngine}
	}

	return ln, nil
}

func wait(inbound <-chan os.Signal, done <-chan struct{}, outbound ...chan<- os.Signal) {
	sig := <-inbound

	for i := 0; i < len(outbound); i++ {
		go sendSignal(outbound[i], sig)
	}

	for i := 0; i < len(outbound); i++ {
		<-done
	}
}

func shutdownAfterSignals(server *http.Server, stopper <-chan os.Signal, done chan<- struct{}) {
	sig := <-stopper

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var s struct{}
	glog.Infof("Stopping %s because of signal: %s", server.Addr, sig.String())
	if err := server.Shutdown(ctx); err != nil {
		glog.Errorf("Failed to shutdown %s: %v", server.Addr, err)
	}
	done <- s
}

func sendSignal(to chan<- os.Signal, sig os.Signal) {
	to <- sig
}
