package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"klinestore.magictradebot.com/config"
	"klinestore.magictradebot.com/models"
	"klinestore.magictradebot.com/pkg/db"
	"klinestore.magictradebot.com/pkg/global"
	"klinestore.magictradebot.com/pkg/migrate"
)

func main() {
	// 🔒 Panic protection
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("🔥 Panic recovered: %v\n", r)
			os.Exit(1)
		}
	}()

	configPath := flag.String("config", "appsettings.yaml", "path to the settings file")
	market := flag.String("market", "", "market to migrate (a/hk/us/futures/currency/currency_spot/fx/ny_futures)")
	codes := flag.String("codes", "", "comma separated code allow-list")
	batchSize := flag.Int("batch-size", 0, "rows per bulk insert")
	dryRun := flag.Bool("dry-run", false, "count source rows without writing")
	flag.Parse()

	if err := config.LoadConfig(*configPath); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	log := config.InitLogger(config.Settings.Debug)
	log.Info("🚚 KLine store migration started")

	opts := optionsFromSettings(config.Settings.Migration)
	if *market != "" {
		opts.Market = models.Market(*market)
	}
	if *codes != "" {
		opts.Codes = splitCodes(*codes)
	}
	if *batchSize > 0 {
		opts.BatchSize = *batchSize
	}
	if *dryRun {
		opts.DryRun = true
	}
	if !models.IsMarket(string(opts.Market)) {
		log.Fatalf("❌ Unknown market: %q", opts.Market)
	}

	// 🗃️ Target store
	store, err := db.Open(config.Settings.Database.Provider, config.Settings.Database.ConnectionString, log)
	if err != nil {
		log.Fatalf("❌ Failed to open target store: %v", err)
	}
	defer store.Close()

	// 📦 Legacy source
	source, err := migrate.OpenSource(config.Settings.Source.Provider, config.Settings.Source.ConnectionString)
	if err != nil {
		log.Fatalf("❌ Failed to open legacy source: %v", err)
	}
	defer source.Close()

	// 📤 Optional progress streaming
	streamCfg := config.Settings.Streaming
	if err := global.ValidateStreamingConfig(streamCfg, log); err != nil {
		log.Fatal(err)
	}
	if streamCfg.Enabled {
		if err := global.InitStreamingClients(streamCfg); err != nil {
			log.Fatalf("❌ Failed to init streaming clients: %v", err)
		}
		defer global.ShutdownStreamingClients()
	}

	migrator := migrate.New(source, store, log)
	if streamCfg.Enabled {
		migrator.SetPublisher(func(u migrate.UnitResult) {
			migrate.PushUnitResult(u, streamCfg, log)
		})
	}

	report, err := migrator.Run(opts)
	if err != nil {
		log.Fatalf("❌ Migration aborted: %v", err)
	}

	failed := report.Failed()
	log.Infof("🏁 Done: %d/%d units succeeded, %d records", report.SuccessCount(), len(report.Units), report.TotalRecords())
	if len(failed) > 0 && !report.DryRun {
		os.Exit(1)
	}
}

func optionsFromSettings(m config.MigrationSettings) migrate.Options {
	return migrate.Options{
		Market:    models.Market(m.Market),
		Codes:     m.Codes,
		BatchSize: m.BatchSize,
		DryRun:    m.DryRun,
	}
}

func splitCodes(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
