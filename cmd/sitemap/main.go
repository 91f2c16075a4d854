// Command main generates sitemap.xml for the public site.
package main

import (
	"encoding/xml"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"tiepbuoc/internal/config"
	"tiepbuoc/internal/database"
	"tiepbuoc/internal/models"
)

type urlEntry struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// Static public pages of the frontend.
var staticPages = []urlEntry{
	{Loc: "/", ChangeFreq: "weekly", Priority: 1.0},
	{Loc: "/dang-ky", ChangeFreq: "monthly", Priority: 0.8},
	{Loc: "/hoc-sinh", ChangeFreq: "daily", Priority: 0.9},
	{Loc: "/linh-kien", ChangeFreq: "daily", Priority: 0.7},
}

func main() {
	out := flag.String("out", "sitemap.xml", "Output file path")
	flag.Parse()

	if err := run(*out); err != nil {
		log.Fatal(err)
	}
}

func run(out string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	base := strings.TrimRight(cfg.SiteURL, "/")
	today := time.Now().Format("2006-01-02")

	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, page := range staticPages {
		page.Loc = base + page.Loc
		page.LastMod = today
		set.URLs = append(set.URLs, page)
	}

	// Each active student gets a code-addressed public page. Codes, not IDs,
	// so the sitemap leaks nothing the public page does not already show.
	var students []models.Student
	if err := db.Where("is_active = ?", true).Find(&students).Error; err != nil {
		return fmt.Errorf("load students: %w", err)
	}
	for i := range students {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        fmt.Sprintf("%s/hoc-sinh/%s", base, students[i].DisplayCode()),
			LastMod:    students[i].UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   0.5,
		})
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if _, err := f.WriteString(xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}

	log.Printf("wrote %s with %d URLs", out, len(set.URLs))
	return nil
}
