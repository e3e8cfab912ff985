package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"tourdesk/internal/booking"
	"tourdesk/internal/config"
	"tourdesk/internal/listener"
	"tourdesk/internal/naver"
	"tourdesk/internal/sheets"
	"tourdesk/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "orders:fetch":
		svc := naver.NewFetchService(db, cfg)
		result, err := svc.FetchAndStore(context.Background())
		must(err)
		fmt.Printf("orders fetch done changed=%d stored=%d\n", result.Changed, result.Stored)
	case "orders:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		payloadID := fs.Int("payloadId", 0, "specific payload id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor := booking.NewProcessingService(db, cfg)
		if *payloadID != 0 {
			res, err := processor.ProcessByID(*payloadID)
			must(err)
			fmt.Printf("processed payload id=%d items=%d bookings=%d\n", res.PayloadID, res.Items, res.Bookings)
			return
		}
		processedPayloads, processedBookings, err := processor.ProcessPending(*batch)
		must(err)
		fmt.Printf("processed pending payloads=%d bookings=%d\n", processedPayloads, processedBookings)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		payloadID := fs.Int("payloadId", 0, "internal payload id, 0 for all")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		bookings, err := db.ListBookings(*payloadID)
		must(err)
		if len(bookings) == 0 {
			must(fmt.Errorf("no bookings for payloadId=%d", *payloadID))
		}
		must(booking.ExportBookingsToXLSX(bookings, *out))
		fmt.Printf("exported %d bookings to %s\n", len(bookings), *out)
	case "sheets:push":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		payloadID := fs.Int("payloadId", 0, "internal payload id, 0 for all")
		rangeName := fs.String("range", cfg.SheetRange, "target range, e.g. input!A40")
		_ = fs.Parse(os.Args[2:])
		bookings, err := db.ListBookings(*payloadID)
		must(err)
		if len(bookings) == 0 {
			must(fmt.Errorf("no bookings for payloadId=%d", *payloadID))
		}
		writer, err := sheets.NewWriter(context.Background(), cfg)
		must(err)
		updated, err := writer.Update(*rangeName, sheets.BookingRows(bookings))
		must(err)
		fmt.Printf("sheet updated cells=%d rows=%d\n", updated, len(bookings))
	case "db:sync":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		payloadID := fs.Int("payloadId", 0, "internal payload id")
		_ = fs.Parse(os.Args[2:])
		if *payloadID == 0 {
			must(fmt.Errorf("--payloadId is required"))
		}
		processor := booking.NewProcessingService(db, cfg)
		res, err := processor.ProcessByID(*payloadID)
		must(err)
		must(cfg.Require("MYSQL_DSN", cfg.MySQLDSN))
		mysqlDB, err := storage.OpenMySQL(cfg.MySQLDSN)
		must(err)
		defer mysqlDB.Close()
		must(mysqlDB.SyncBookings(res.Orders, res.LineItems, res.Merged))
		fmt.Printf("db sync done payloadId=%d bookings=%d\n", res.PayloadID, res.Bookings)
	case "orders:listen":
		s := listener.NewService(db, cfg)
		must(s.Run(context.Background()))
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "raw payload json path")
		output := fs.String("output", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input and --output are required"))
		}
		raw, err := os.ReadFile(*input)
		must(err)
		merged, _, err := booking.RunOnce(raw)
		must(err)
		must(booking.ExportBookingsToXLSX(merged, *output))
		fmt.Printf("run done bookings=%d output=%s\n", len(merged), *output)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: tourdesk <command>")
	fmt.Println("commands:")
	fmt.Println("  orders:fetch")
	fmt.Println("  orders:process [--payloadId=1] [--batch=20]")
	fmt.Println("  orders:listen")
	fmt.Println("  export:xlsx --out=./out/result.xlsx [--payloadId=1]")
	fmt.Println("  sheets:push [--payloadId=1] [--range=input!A40]")
	fmt.Println("  db:sync --payloadId=1")
	fmt.Println("  run --input=./payload.json --output=./out/result.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
