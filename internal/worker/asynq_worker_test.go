package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/provider"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func openWorkerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

type countingCache struct {
	flushed []string
}

func (c *countingCache) GetJSON(context.Context, string, interface{}) (bool, error) {
	return false, nil
}

func (c *countingCache) SetJSON(context.Context, string, interface{}, time.Duration) error {
	return nil
}

func (c *countingCache) DelByPrefix(_ context.Context, prefix string) (int64, error) {
	c.flushed = append(c.flushed, prefix)
	return 4, nil
}

func TestHandlePricingIssueReportPersistsIssues(t *testing.T) {
	db := openWorkerTestDB(t)
	repo := repository.NewPricingIssueRepository(db)
	consumer := NewConsumer(&provider.Container{PricingIssueService: service.NewPricingIssueService(repo)})

	task, err := queue.NewPricingIssueReportTask(queue.PricingIssueReportPayload{Issues: []queue.PricingIssueItem{
		{Source: constants.PricingIssueSourceProduct, RefID: 11, Code: constants.PricingIssueFixedExceedsPrice, Detail: "fixed 45 > 30"},
	}})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handlePricingIssueReport(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	issues, total, err := repo.List(context.Background(), repository.PricingIssueListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || issues[0].RefID != 11 || issues[0].Code != constants.PricingIssueFixedExceedsPrice {
		t.Fatalf("unexpected issues: total=%d %+v", total, issues)
	}
}

func TestHandlePricingIssueReportSkipsRetryOnBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskPricingIssueReport, []byte("{not json"))

	err := consumer.handlePricingIssueReport(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("want SkipRetry got %v", err)
	}
}

func TestHandleCatalogCacheFlush(t *testing.T) {
	cache := &countingCache{}
	catalogService := service.NewCatalogService(nil, cache, nil, service.CatalogOptions{CacheTTL: time.Minute})
	consumer := NewConsumer(&provider.Container{CatalogService: catalogService})

	task, err := queue.NewCatalogCacheFlushTask(queue.CatalogCacheFlushPayload{Reason: "admin"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCatalogCacheFlush(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(cache.flushed) != 1 || cache.flushed[0] != "catalog:" {
		t.Fatalf("unexpected flush calls: %v", cache.flushed)
	}
}

func TestNilConsumerIgnoresTasks(t *testing.T) {
	var consumer *Consumer
	if err := consumer.handleCatalogCacheFlush(context.Background(), nil); err != nil {
		t.Fatalf("nil consumer should be a no-op: %v", err)
	}
}
