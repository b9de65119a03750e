// Package charts renders the dashboard and student history as standalone HTML pages.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/consolahealth/studenthealth/internal/app/healthmetrics"
	"github.com/consolahealth/studenthealth/internal/app/models/dto"
)

// unlabeledYear is shown for records without a school year
const unlabeledYear = "Unassigned"

// missing is how echarts expects a gap in a series
const missing = "-"

// RenderDashboard writes the category pie and the per-year bars
func RenderDashboard(w io.Writer, d *dto.DashboardResponse) error {
	page := components.NewPage()
	page.SetPageTitle("Student Health Dashboard")
	page.AddCharts(
		categoryPie(d),
		weightByYearBar(d),
		studentsPerYearBar(d),
	)
	return page.Render(w)
}

// RenderStudentHistory writes weight and BMI trend lines for one student
func RenderStudentHistory(w io.Writer, h *dto.StudentHistoryResponse) error {
	page := components.NewPage()
	page.SetPageTitle(fmt.Sprintf("Health history: %s %s", h.Student.FirstName, h.Student.LastName))
	page.AddCharts(historyLine(h))
	return page.Render(w)
}

func categoryPie(d *dto.DashboardResponse) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "BMI categories",
			Subtitle: fmt.Sprintf("Average BMI %.2f across %d students", d.AverageBMI, d.TotalStudents),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	data := make([]opts.PieData, 0, len(healthmetrics.Categories))
	for _, c := range healthmetrics.Categories {
		data = append(data, opts.PieData{Name: healthmetrics.CategoryLabels[c], Value: d.HealthDistribution[c]})
	}
	pie.AddSeries("Students", data).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}: {c}",
		}))
	return pie
}

func yearAxis(years []string) []string {
	axis := make([]string, 0, len(years))
	for _, y := range years {
		if y == "" {
			y = unlabeledYear
		}
		axis = append(axis, y)
	}
	return axis
}

func weightByYearBar(d *dto.DashboardResponse) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Average weight by school year"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "kg"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	data := make([]opts.BarData, 0, len(d.SchoolYears))
	for _, y := range d.SchoolYears {
		data = append(data, opts.BarData{Value: healthmetrics.Round2(d.WeightByYear[y])})
	}
	bar.SetXAxis(yearAxis(d.SchoolYears)).AddSeries("Average weight", data)
	return bar
}

func studentsPerYearBar(d *dto.DashboardResponse) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Students examined per school year"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	data := make([]opts.BarData, 0, len(d.SchoolYears))
	for _, y := range d.SchoolYears {
		data = append(data, opts.BarData{Value: d.StudentsPerYear[y]})
	}
	bar.SetXAxis(yearAxis(d.SchoolYears)).AddSeries("Students", data)
	return bar
}

// historyLine plots the series oldest to newest; the series arrive newest first
func historyLine(h *dto.StudentHistoryResponse) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Weight and BMI",
			Subtitle: fmt.Sprintf("Student %d", h.Student.SID),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	n := len(h.Series.Dates)
	dates := make([]string, 0, n)
	weights := make([]opts.LineData, 0, n)
	bmis := make([]opts.LineData, 0, n)
	for i := n - 1; i >= 0; i-- {
		dates = append(dates, h.Series.Dates[i])
		weights = append(weights, opts.LineData{Value: h.Series.Weights[i]})
		if bmi := h.Series.BMIs[i]; bmi != nil {
			bmis = append(bmis, opts.LineData{Value: *bmi})
		} else {
			bmis = append(bmis, opts.LineData{Value: missing})
		}
	}

	line.SetXAxis(dates).
		AddSeries("Weight (kg)", weights).
		AddSeries("BMI", bmis).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(true),
			}),
			charts.WithMarkLineNameTypeItemOpts(
				opts.MarkLineNameTypeItem{Name: "Average", Type: "average"},
			),
		)
	return line
}
