package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/dining-area/config"
	"github.com/yeremiapane/dining-area/events"
	"github.com/yeremiapane/dining-area/lang"
	"github.com/yeremiapane/dining-area/repository"
	"github.com/yeremiapane/dining-area/services"
	"github.com/yeremiapane/dining-area/utils"
)

type options struct {
	migrate   bool
	seed      string
	combine   string
	split     uint
	duplicate uint
	fixTree   bool
	floorPlan uint
	debug     bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("dining-area", flag.ContinueOnError)
	fs.BoolVar(&opts.migrate, "migrate", false, "run AutoMigrate")
	fs.StringVar(&opts.seed, "seed", "", "seed data from a YAML file")
	fs.StringVar(&opts.combine, "combine", "", "combine tables, format <areaID>:<id,id,...>")
	fs.UintVar(&opts.split, "split", 0, "split a combo table by id")
	fs.UintVar(&opts.duplicate, "duplicate", 0, "duplicate a dining area by id")
	fs.BoolVar(&opts.fixTree, "fix-tree", false, "rebuild nest_left/nest_right of dining_tables")
	fs.UintVar(&opts.floorPlan, "floor-plan", 0, "print the floor plan of a dining area as JSON")
	fs.BoolVar(&opts.debug, "debug", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	level := logrus.InfoLevel
	if opts.debug {
		level = logrus.DebugLevel
	}
	utils.InitLoggerWithLevel(level, false)
	// stdout dipakai untuk output JSON
	utils.InfoLogger.SetOutput(os.Stderr)

	cfg := config.LoadConfig()

	db, err := cfg.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	tr := lang.NewTranslator(cfg.Locale)
	if cfg.LangDir != "" {
		if err := tr.LoadDir(cfg.LangDir); err != nil {
			utils.ErrorLogger.Fatalf("Failed to load messages: %v", err)
		}
	}

	var locker services.Locker
	if client := cfg.NewRedisClient(); client != nil {
		defer client.Close()
		locker = services.NewRedisLocker(client, "dining:lock:", cfg.LockTTL)
		utils.InfoLogger.Printf("Using redis locks at %s", cfg.RedisAddr)
	}

	stopEvents := startEventSinks(cfg)
	defer stopEvents()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	svc := services.NewDiningAreaService(db, tr, locker)
	if err := run(ctx, opts, svc, repository.NewReservationRepository(db), db); err != nil {
		stopEvents()
		utils.ErrorLogger.Fatal(err)
	}
}

// startEventSinks -> log semua event, dan teruskan ke RabbitMQ jika AMQP_URL
// diisi. Fungsi yang dikembalikan menunggu event yang tersisa terkirim.
func startEventSinks(cfg *config.Config) func() {
	logSub := events.Subscribe("cli-log", 64)
	logDone := make(chan struct{})
	go func() {
		defer close(logDone)
		for msg := range logSub {
			utils.InfoLogger.WithField("event", msg.Event).Debug("Event published")
		}
	}()

	var amqpSub chan events.Message
	amqpDone := make(chan struct{})
	var forwarder *events.AMQPForwarder
	if cfg.AMQPURL != "" {
		f, err := events.NewAMQPForwarder(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			utils.ErrorLogger.Printf("AMQP disabled: %v", err)
		} else {
			forwarder = f
			amqpSub = events.Subscribe("amqp", 256)
			go func() {
				defer close(amqpDone)
				forwarder.Run(context.Background(), amqpSub)
			}()
		}
	}

	stopped := false
	return func() {
		if stopped {
			return
		}
		stopped = true

		events.Unsubscribe(logSub)
		<-logDone
		if forwarder != nil {
			events.Unsubscribe(amqpSub)
			select {
			case <-amqpDone:
			case <-time.After(10 * time.Second):
				utils.ErrorLogger.Println("Timed out flushing events to AMQP")
			}
			if err := forwarder.Close(); err != nil {
				utils.ErrorLogger.Printf("Error closing AMQP connection: %v", err)
			}
		}
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
