// chartgen renders a player's points-per-gameweek and price-per-gameweek
// line charts as SVG files, fetching straight from the FPL API.
//
// Usage: chartgen -player 233 [-out charts]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fplpulse/analytics-api/internal/fpl"
)

func main() {
	playerID := flag.Int("player", 0, "player id to chart")
	outDir := flag.String("out", "charts", "output directory")
	baseURL := flag.String("base-url", fpl.DefaultBaseURL, "FPL API base URL")
	flag.Parse()

	if *playerID <= 0 {
		log.Fatal("chartgen: -player is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := fpl.New(fpl.Config{BaseURL: *baseURL, UserAgent: "fpl-analytics-chartgen/1.0", Logger: zap.NewNop()})

	bulk, err := client.FetchSeasonBulk(ctx)
	if err != nil {
		log.Fatal(err)
	}
	name := fmt.Sprintf("Player %d", *playerID)
	for _, el := range bulk.Elements {
		if el.ID == *playerID {
			name = strings.TrimSpace(el.FirstName + " " + el.SecondName)
			break
		}
	}

	history, err := client.FetchPlayerHistory(ctx, *playerID)
	if err != nil {
		log.Fatal(err)
	}
	if len(history) == 0 {
		log.Fatalf("no gameweek data for player %d", *playerID)
	}

	gameweeks := make([]int, len(history))
	points := make([]float64, len(history))
	prices := make([]float64, len(history))
	for i, h := range history {
		gameweeks[i] = h.Round
		points[i] = float64(h.TotalPoints)
		prices[i] = float64(h.Value) / 10 // tenths of £m to £m
	}
	sortByGameweek(gameweeks, points, prices)

	svg := generateLineChartSVG(fmt.Sprintf("%s – Points per Gameweek", name), gameweeks, points, "#4a90e2")
	saveChart(*outDir, fmt.Sprintf("player_%d_points.svg", *playerID), svg)

	svg = generateLineChartSVG(fmt.Sprintf("%s – Price per Gameweek (£m)", name), gameweeks, prices, "#2ecc71")
	saveChart(*outDir, fmt.Sprintf("player_%d_price.svg", *playerID), svg)
}

func sortByGameweek(gws []int, points, prices []float64) {
	// History arrives sorted from the API, but don't rely on it.
	for i := 1; i < len(gws); i++ {
		for j := i; j > 0 && gws[j] < gws[j-1]; j-- {
			gws[j], gws[j-1] = gws[j-1], gws[j]
			points[j], points[j-1] = points[j-1], points[j]
			prices[j], prices[j-1] = prices[j-1], prices[j]
		}
	}
}

func saveChart(dir, filename, svg string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatal(err)
	}
	path := dir + "/" + filename
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Chart generated: %s\n", path)
}

func generateLineChartSVG(title string, gameweeks []int, values []float64, color string) string {
	width := 800
	height := 400
	padding := 50
	plotW := width - 2*padding
	plotH := height - 2*padding

	minGW, maxGW := gameweeks[0], gameweeks[len(gameweeks)-1]
	maxVal := values[0]
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}
	gwSpan := maxGW - minGW
	if gwSpan == 0 {
		gwSpan = 1
	}

	xOf := func(gw int) int {
		return padding + (gw-minGW)*plotW/gwSpan
	}
	yOf := func(v float64) int {
		return height - padding - int(v/maxVal*float64(plotH))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height, width, height))

	// Background
	sb.WriteString(`<rect width="100%" height="100%" fill="#1a1a1a" />`)

	// Title
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="30" fill="white" font-family="Arial" font-size="20" text-anchor="middle">%s</text>`, width/2, title))

	// Polyline through the gameweek values
	var pts []string
	for i, v := range values {
		pts = append(pts, fmt.Sprintf("%d,%d", xOf(gameweeks[i]), yOf(v)))
	}
	sb.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" stroke="%s" stroke-width="2" />`, strings.Join(pts, " "), color))

	// Markers with value labels
	for i, v := range values {
		x, y := xOf(gameweeks[i]), yOf(v)
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="3" fill="%s" />`, x, y, color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="white" font-family="Arial" font-size="10" text-anchor="middle">%.1f</text>`, x, y-8, v))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="white" font-family="Arial" font-size="10" text-anchor="middle">%d</text>`, x, height-padding+16, gameweeks[i]))
	}

	// Axes
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="white" stroke-width="2" />`, padding, height-padding, width-padding, height-padding))
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="white" stroke-width="2" />`, padding, padding, padding, height-padding))

	sb.WriteString(`</svg>`)
	return sb.String()
}
