package metrics

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/usersync"
)

// MetricsEngineMock is mock for the MetricsEngine interface
type MetricsEngineMock struct {
	mock.Mock
}

// RecordConnectionAccept mock
func (me *MetricsEngineMock) RecordConnectionAccept(success bool) {
	me.Called(success)
}

// RecordConnectionClose mock
func (me *MetricsEngineMock) RecordConnectionClose(success bool) {
	me.Called(success)
}

// RecordRequest mock
func (me *MetricsEngineMock) RecordRequest(labels Labels) {
	me.Called(labels)
}

// RecordRequestTime mock
func (me *MetricsEngineMock) RecordRequestTime(labels Labels, length time.Duration) {
	me.Called(labels, length)
}

// RecordOutboundRequest mock
func (me *MetricsEngineMock) RecordOutboundRequest(mediaType openrtb_ext.BidType) {
	me.Called(mediaType)
}

// RecordAdPodImps mock
func (me *MetricsEngineMock) RecordAdPodImps(count int) {
	me.Called(count)
}

// RecordBid mock
func (me *MetricsEngineMock) RecordBid(mediaType openrtb_ext.BidType) {
	me.Called(mediaType)
}

// RecordAdapterError mock
func (me *MetricsEngineMock) RecordAdapterError(adapterError AdapterError) {
	me.Called(adapterError)
}

// RecordUserSync mock
func (me *MetricsEngineMock) RecordUserSync(syncType usersync.SyncType) {
	me.Called(syncType)
}
