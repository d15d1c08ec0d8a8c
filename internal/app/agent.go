package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/0x6666/ddns-client/internal/config"
	"github.com/0x6666/ddns-client/internal/logger"
	"github.com/0x6666/ddns-client/internal/storage"
	"github.com/0x6666/ddns-client/internal/syncer"
	"github.com/0x6666/ddns-client/pkg/ddnsapi"
	"github.com/0x6666/ddns-client/pkg/httpclient"
	"github.com/0x6666/ddns-client/pkg/publishers"
	"github.com/0x6666/ddns-client/pkg/records"
)

// SessionCookieName is the cookie the DDNS server uses to identify a session.
const SessionCookieName = "ddns_sid"

// Agent represents the record sync runtime. It loads the records file, keeps
// the submission journal and runs sync passes on an interval. When a status
// address is configured it also serves health and metrics endpoints.
type Agent struct {
	cfg          *config.Config
	recordSet    *records.Set
	client       *ddnsapi.Client
	fanout       *publishers.Fanout
	syncService  *syncer.Service
	syncInterval time.Duration
	log          logger.Logger
	store        storage.Store
	status       *http.Server
}

// NewAgent builds an agent runtime from config files.
func NewAgent(ctx context.Context, cfg *config.Config, log logger.Logger) (*Agent, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	recordSet, err := records.Load(cfg.RecordsFile)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	recordIDs := make([]string, 0, len(recordSet.All()))
	for _, r := range recordSet.All() {
		recordIDs = append(recordIDs, r.ID)
	}
	log.InfoObj("records loaded", "records_meta", map[string]any{
		"count":   len(recordIDs),
		"enabled": len(recordSet.Enabled()),
		"ids":     recordIDs,
	})

	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		RecordTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"record_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	a := &Agent{
		cfg:          cfg,
		recordSet:    recordSet,
		client:       client,
		fanout:       fanout,
		syncService:  syncer.NewService(client, store, fanout, log),
		syncInterval: cfg.SyncInterval,
		log:          log,
		store:        store,
	}
	if cfg.StatusAddr != "" {
		a.status = &http.Server{
			Addr:              cfg.StatusAddr,
			Handler:           NewStatusRouter(store),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return a, nil
}

// NewClient builds the DDNS API client described by cfg. A configured session
// cookie is placed in the jar so credentialed calls carry it.
func NewClient(cfg *config.Config) (*ddnsapi.Client, error) {
	jar, err := httpclient.NewCookieJar()
	if err != nil {
		return nil, fmt.Errorf("init cookie jar: %w", err)
	}
	transport := httpclient.NewRestyClientWithJar(cfg.RequestTimeout, jar)
	if cfg.SessionCookie != "" {
		cookie := &http.Cookie{Name: SessionCookieName, Value: cfg.SessionCookie, Path: "/"}
		if err := transport.SeedCookie(cfg.ServerURL, cookie); err != nil {
			return nil, fmt.Errorf("seed session cookie: %w", err)
		}
	}

	client, err := ddnsapi.New(cfg.ServerURL, ddnsapi.WithHTTPClient(transport))
	if err != nil {
		return nil, fmt.Errorf("init ddns client: %w", err)
	}
	return client, nil
}

// buildFanout loads the optional publishers file. Without one the fanout is
// empty and outcome events are dropped.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		log.InfoObj("no publishers file configured; outcome events disabled", "publishers_file", "")
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Run starts the sync loop until the context is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	if a == nil || a.syncService == nil {
		return fmt.Errorf("agent is not initialized")
	}
	defer a.shutdown()

	if a.status != nil {
		go a.serveStatus()
	}

	recs := a.recordSet.Enabled()
	if len(recs) == 0 {
		a.log.WarnObj("no enabled records; agent idle", "records_file", a.cfg.RecordsFile)
		<-ctx.Done()
		return nil
	}

	a.log.InfoObj("agent loop starting", "agent_state", map[string]any{
		"records_count":    len(recs),
		"publishers_count": a.fanout.Size(),
		"server_url":       a.client.BaseURL(),
		"sync_interval":    a.syncInterval.String(),
	})

	if err := a.runOnce(ctx, recs); err != nil {
		a.log.ErrorObj("initial sync failed", "error", err)
	}

	ticker := time.NewTicker(a.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.InfoObj("agent loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := a.runOnce(ctx, recs); err != nil {
				a.log.ErrorObj("scheduled sync failed", "error", err)
			}
		}
	}
}

// runOnce performs a single sync pass across the enabled records.
func (a *Agent) runOnce(ctx context.Context, recs []records.Record) error {
	start := time.Now()
	a.log.InfoObj("sync started", "sync_meta", map[string]any{
		"records_count": len(recs),
		"started_at":    start.UTC(),
	})
	sum, err := a.syncService.Run(ctx, recs)
	if err != nil {
		return err
	}
	a.log.InfoObj("sync completed", "sync_meta", map[string]any{
		"created":    sum.Created,
		"skipped":    sum.Skipped,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func (a *Agent) serveStatus() {
	a.log.InfoObj("status server listening", "status_addr", a.status.Addr)
	if err := a.status.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.ErrorObj("status server failed", "error", err)
	}
}

// shutdown waits for in-flight submissions and releases every resource.
func (a *Agent) shutdown() {
	if a == nil {
		return
	}
	if a.status != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.status.Shutdown(ctx); err != nil {
			a.log.ErrorObj("status server shutdown failed", "error", err)
		}
		cancel()
	}
	if a.client != nil {
		a.client.Wait()
	}
	if err := a.fanout.Close(); err != nil {
		a.log.ErrorObj("publishers close failed", "error", err)
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.ErrorObj("storage close failed", "error", err)
		}
	}
}
