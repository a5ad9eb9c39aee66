package metrics

import (
	"time"

	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/usersync"
)

// NilMetricsEngine implements MetricsEngine and discards everything.
type NilMetricsEngine struct{}

func (me *NilMetricsEngine) RecordConnectionAccept(success bool) {}

func (me *NilMetricsEngine) RecordConnectionClose(success bool) {}

func (me *NilMetricsEngine) RecordRequest(labels Labels) {}

func (me *NilMetricsEngine) RecordRequestTime(labels Labels, length time.Duration) {}

func (me *NilMetricsEngine) RecordOutboundRequest(mediaType openrtb_ext.BidType) {}

func (me *NilMetricsEngine) RecordAdPodImps(count int) {}

func (me *NilMetricsEngine) RecordBid(mediaType openrtb_ext.BidType) {}

func (me *NilMetricsEngine) RecordAdapterError(adapterError AdapterError) {}

func (me *NilMetricsEngine) RecordUserSync(syncType usersync.SyncType) {}
