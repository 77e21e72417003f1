// shopjobs runs the batch side of the shop: the stock monitor that turns
// restocks into notifications, and the product sync that feeds the chatbot's
// vector index. Both are one-shot; schedule them with cron or a timer unit.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"verdantshop/internal/config"
	"verdantshop/internal/llm"
	"verdantshop/internal/mail"
	"verdantshop/internal/repos"
	"verdantshop/internal/services"
	"verdantshop/internal/vector"
)

func main() {
	job := flag.String("job", "", "job to run: stock-monitor or sync-products")
	force := flag.Bool("force", false, "sync-products: re-embed every product even if unchanged")
	batchSize := flag.Int("batch-size", 0, "sync-products: products per batch (default from config)")
	dryRun := flag.Bool("dry-run", false, "stock-monitor: report without mutating")
	timeout := flag.Duration("timeout", 10*time.Minute, "abort the job after this long")
	flag.Parse()

	cfg := config.Load()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	switch *job {
	case "stock-monitor":
		prodRepo := repos.NewProductRepo(db)
		alertRepo := repos.NewStockAlertRepo(db)
		notifySvc := services.NewNotificationService(
			repos.NewNotificationRepo(db), repos.NewUserRepo(db), repos.NewWishlistRepo(db),
			mail.New(cfg.EmailBackend, cfg.SMTPAddr, cfg.SMTPFrom))
		mon := services.NewStockMonitor(prodRepo, alertRepo, notifySvc)
		mon.DryRun = *dryRun
		rep, err := mon.Run(ctx)
		if err != nil {
			log.Fatalf("stock-monitor: %v", err)
		}
		fmt.Printf("stock-monitor: eligible=%d sent=%d off=%d on=%d errors=%d\n",
			rep.AlertsEligible, rep.NotificationsSent, rep.MarkedUnavailable, rep.MarkedAvailable, len(rep.Errors))
		for _, e := range rep.Errors {
			fmt.Println("  error:", e)
		}

	case "sync-products":
		size := *batchSize
		if size <= 0 {
			size = cfg.SyncBatchSize
		}
		syncSvc := services.NewSyncService(
			repos.NewProductRepo(db), repos.NewCategoryRepo(db), repos.NewSyncStateRepo(db),
			vector.NewPinecone(cfg.PineconeKey, cfg.PineconeHost),
			llm.NewHF(cfg.HFToken, cfg.HFModel))
		rep, err := syncSvc.Run(ctx, *force, size)
		if err != nil {
			log.Fatalf("sync-products: %v", err)
		}
		fmt.Printf("sync-products: total=%d synced=%d skipped=%d failed=%d\n",
			rep.Total, rep.Synced, rep.Skipped, rep.Failed)
		for _, e := range rep.Errors {
			fmt.Println("  error:", e)
		}

	default:
		fmt.Fprintln(os.Stderr, "usage: shopjobs -job stock-monitor|sync-products [-force] [-batch-size N] [-dry-run]")
		os.Exit(2)
	}
}
