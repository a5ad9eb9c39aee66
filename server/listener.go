package server

import (
	"net"
	"time"

	"github.com/golang/glog"

	"github.com/smaato/prebid-smaato-adapter/metrics"
)

// tcpKeepAliveListener sets TCP keep-alive timeouts on accepted connections.
type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	if err = tc.SetKeepAlive(true); err != nil {
		glog.Error("Error setting keepalive: ", err)
	}
	if err = tc.SetKeepAlivePeriod(3 * time.Minute); err != nil {
		glog.Error("Error setting keepalive period: ", err)
	}
	return tc, nil
}

// monitorableListener tracks any opened connections in the metrics.
type monitorableListener struct {
	net.Listener
	metrics metrics.MetricsEngine
}

// monitorableConnection tracks any closed connections in the metrics.
type monitorableConnection struct {
	net.Conn
	metrics metrics.MetricsEngine
}

func (l *monitorableConnection) Close() error {
	err := l.Conn.Close()
	l.metrics.RecordConnectionClose(err == nil)
	return err
}

func (ln *monitorableListener) Accept() (net.Conn, error) {
	conn, err := ln.Listener.Accept()
	if err != nil {
		ln.metrics.RecordConnectionAccept(false)
		return nil, err
	}

	ln.metrics.RecordConnectionAccept(true)
	return &monitorableConnection{
		conn,
		ln.metrics,
	}, nil
}
