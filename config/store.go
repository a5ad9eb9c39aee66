package config

import (
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
	"github.com/spf13/viper"
)

// Store holds the options which may change while the server runs. Readers always see a complete
// snapshot.
type Store struct {
	current atomic.Pointer[runtimeOptions]
}

type runtimeOptions struct {
	adPod          AdPod
	syncsPerBidder int
}

func NewStore(cfg *Configuration) *Store {
	s := &Store{}
	s.Update(cfg)
	return s
}

// Update replaces the snapshot with the runtime options of cfg.
func (s *Store) Update(cfg *Configuration) {
	s.current.Store(&runtimeOptions{
		adPod:          cfg.AdPod,
		syncsPerBidder: cfg.UserSync.SyncsPerBidder,
	})
}

func (s *Store) BrandCategoryExclusion() bool {
	return s.current.Load().adPod.BrandCategoryExclusion
}

func (s *Store) SyncsPerBidder() int {
	return s.current.Load().syncsPerBidder
}

// Watch reloads the runtime options whenever viper notices the config file changed. A file which
// fails validation is ignored and the previous snapshot stays active.
func (s *Store) Watch(v *viper.Viper) {
	v.OnConfigChange(func(event fsnotify.Event) {
		s.reload(v, event)
	})
	v.WatchConfig()
}

func (s *Store) reload(v *viper.Viper, event fsnotify.Event) {
	cfg, err := New(v)
	if err != nil {
		glog.Errorf("Ignoring config change of %s (%s): %v", event.Name, event.Op, err)
		return
	}

	s.Update(cfg)
	glog.Infof("Reloaded %s: adpod.brand_category_exclusion=%t, user_sync.syncs_per_bidder=%d",
		event.Name, cfg.AdPod.BrandCategoryExclusion, cfg.UserSync.SyncsPerBidder)
}
