package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"phonebook/contact"
	"phonebook/httpclient"
	"phonebook/pkg/config"
	"phonebook/pkg/logger"
)

func main() {
	var (
		csvPath string
		limit   int
	)

	flag.StringVar(&csvPath, "csv", "", "Path to a contacts csv with a name,phone[,email,address,notes,favorite] header")
	flag.IntVar(&limit, "limit", 0, "Limit number of rows to import (0 = all)")
	flag.Parse()

	log := logger.New(logger.Options{Format: "text", Output: os.Stdout})
	slog.SetDefault(log)

	if csvPath == "" {
		log.Error("missing -csv flag")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("load config failed", "error", err)
		os.Exit(1)
	}

	file, err := os.Open(csvPath)
	if err != nil {
		log.Error("cannot open csv", "error", err)
		os.Exit(1)
	}
	defer file.Close()

	client := httpclient.New(cfg.Client.APIURL, cfg.Client.Timeout)
	count, err := importContacts(context.Background(), client, file, limit)
	if err != nil {
		log.Error("import failed", "rows", count, "error", err)
		os.Exit(1)
	}

	log.Info("import completed", "rows", count, "api_url", client.BaseURL)
}

type columns struct {
	name, phone, email, address, notes, favorite int
}

// importContacts adds every valid row to svc. Rows without a name or phone
// are skipped.
func importContacts(ctx context.Context, svc contact.Service, r io.Reader, limit int) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	cols, err := parseContactCSVHeader(reader)
	if err != nil {
		return 0, err
	}

	count := 0
	for limit <= 0 || count < limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, err
		}

		c := parseContactRecord(record, cols)
		if err := c.Validate(); err != nil {
			slog.Warn("skipping row", "line", lineOf(reader), "error", err)
			continue
		}

		if _, err := svc.AddContact(ctx, c.Fields()); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func lineOf(r *csv.Reader) int {
	line, _ := r.FieldPos(0)
	return line
}

func parseContactCSVHeader(reader *csv.Reader) (columns, error) {
	header, err := reader.Read()
	if err != nil {
		return columns{}, err
	}

	cols := columns{-1, -1, -1, -1, -1, -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "name":
			cols.name = i
		case "phone":
			cols.phone = i
		case "email":
			cols.email = i
		case "address":
			cols.address = i
		case "notes":
			cols.notes = i
		case "favorite":
			cols.favorite = i
		}
	}
	if cols.name == -1 || cols.phone == -1 {
		return columns{}, errors.New("missing required columns in csv header")
	}

	return cols, nil
}

func parseContactRecord(record []string, cols columns) contact.Contact {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	favorite, _ := strconv.ParseBool(field(cols.favorite))
	return contact.Contact{
		Name:     field(cols.name),
		Phone:    field(cols.phone),
		Email:    field(cols.email),
		Address:  field(cols.address),
		Notes:    field(cols.notes),
		Favorite: favorite,
	}
}
