package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/visionaq/internal/client/models"
	"github.com/dmitrijs2005/visionaq/internal/client/router"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)

	toastStyles = map[models.NotificationKind]lipgloss.Style{
		models.NotificationInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		models.NotificationSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.NotificationError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func renderToast(n models.Notification) string {
	style, ok := toastStyles[n.Kind]
	if !ok {
		style = toastStyles[models.NotificationInfo]
	}
	line := "» " + style.Bold(true).Render(n.Title)
	if n.Body != "" {
		line += " " + n.Body
	}
	return line
}

// aqiCard renders a result framed in its band colour.
func aqiCard(r models.CurrentResult) string {
	band := models.BandFor(r.AQI)
	color := lipgloss.Color(band.Color)

	value := lipgloss.NewStyle().Bold(true).Foreground(color).Render(fmt.Sprintf("AQI %d", r.AQI))

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", value, band.Status)
	fmt.Fprintf(&b, "Category: %s\n", r.Category)
	fmt.Fprintf(&b, "Haze level: %s\n", r.HazeLevel)
	b.WriteString(mutedStyle.Render(band.Description))
	if r.ImageRef != "" {
		b.WriteString("\n" + mutedStyle.Render("Image: "+r.ImageRef))
	}
	b.WriteString("\n" + idStyle.Render(r.CreatedAt.Local().Format("2006-01-02 15:04")+"  "+r.ID))

	return cardStyle.BorderForeground(color).Render(b.String())
}

// historyList renders results newest first, one per line.
func historyList(results []models.AnalysisResult) string {
	if len(results) == 0 {
		return mutedStyle.Render("No analyses yet. Try: analyze <image>")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("History (%d)", len(results))) + "\n")
	for _, r := range results {
		band := models.BandFor(r.AQI)
		aqi := lipgloss.NewStyle().Foreground(lipgloss.Color(band.Color)).Render(fmt.Sprintf("%3d", r.AQI))
		fmt.Fprintf(&b, "  %s  %s  %-8s %s  %s\n",
			mutedStyle.Render(r.CreatedAt.Local().Format("2006-01-02 15:04")),
			aqi,
			r.HazeLevel,
			r.Category,
			idStyle.Render(r.ID),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// healthGuide lists the AQI bands with their advice.
func healthGuide() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Health & Safety") + "\n")
	lower := 0
	for _, upper := range []int{50, 100, 150, 200, 300} {
		band := models.BandFor(upper)
		name := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(band.Color)).Render(band.Status)
		fmt.Fprintf(&b, "  %3d-%-3d %s: %s\n", lower, upper, name, band.Description)
		lower = upper + 1
	}
	return strings.TrimRight(b.String(), "\n")
}

// render shows v. It runs as a router listener, so it may navigate.
func (a *App) render(v router.View) {
	ctx := context.Background()

	switch v.Decision.Action {
	case router.ActionWait:
		fmt.Fprintln(a.out, mutedStyle.Render("Checking your session..."))
		return
	case router.ActionNotFound:
		fmt.Fprintln(a.out, headerStyle.Render("404")+" nothing at "+v.Path+". Try 'goto /'")
		return
	case router.ActionRedirect:
		// the router gave up following redirects
		return
	}

	switch v.Path {
	case router.PathLanding:
		fmt.Fprintln(a.out, headerStyle.Render("VisionAQ"))
		fmt.Fprintln(a.out, "Estimate air quality from a photo of the sky.")
		fmt.Fprintln(a.out, mutedStyle.Render("login, signup or goto /how-it-works"))

	case router.PathAuth:
		fmt.Fprintln(a.out, headerStyle.Render("Sign in"))
		fmt.Fprintln(a.out, "Use 'login' for an existing account or 'signup' to create one.")

	case router.PathHowItWorks:
		fmt.Fprintln(a.out, headerStyle.Render("How it works"))
		fmt.Fprintln(a.out, "1. Take a photo of the sky.\n2. Run 'analyze <image>'.\n3. Read the AQI estimate and the health advice for its band.")

	case router.PathDashboard:
		a.renderDashboard(ctx)

	case router.PathAnalyze:
		fmt.Fprintln(a.out, headerStyle.Render("Analyze"))
		fmt.Fprintln(a.out, "Run 'analyze <image>' with a JPEG or PNG of the sky.")

	case router.PathResults:
		cur, ok, err := a.history.Current(ctx)
		if err != nil {
			a.log.Error(ctx, "read current result", "error", err)
		}
		if !ok {
			a.router.Navigate(router.PathAnalyze)
			return
		}
		fmt.Fprintln(a.out, headerStyle.Render("Results"))
		fmt.Fprintln(a.out, aqiCard(cur))

	case router.PathHealth:
		fmt.Fprintln(a.out, healthGuide())
	}
}

// dashboardRecent is how many entries the dashboard lists.
const dashboardRecent = 5

func (a *App) renderDashboard(ctx context.Context) {
	name := "there"
	if u := a.session.State().User; u != nil {
		name = u.DisplayName
	}
	fmt.Fprintln(a.out, headerStyle.Render("Dashboard"))
	fmt.Fprintf(a.out, "Hello, %s.\n", name)

	results, err := a.history.All(ctx)
	switch {
	case err != nil:
		a.log.Error(ctx, "read history", "error", err)
		fmt.Fprintln(a.out, mutedStyle.Render("History is unreadable."))
	case len(results) == 0:
		fmt.Fprintln(a.out, mutedStyle.Render("No analyses yet. Try: analyze <image>"))
	default:
		fmt.Fprintf(a.out, "Latest reading (%d total):\n", len(results))
		fmt.Fprintln(a.out, aqiCard(models.CurrentResult{AnalysisResult: results[0]}))
		if len(results) > 1 {
			fmt.Fprintln(a.out, historyList(results[:min(len(results), dashboardRecent)]))
		}
	}
}
