package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/olekukonko/tablewriter"
	"github.com/valyala/quicktemplate"
)

type row struct {
	name      string
	writes    int64
	resolved  int64 // subscriber notifications for propagate, completed waits for wait
	cancelled int64
	duration  time.Duration
	latency   *tachymeter.Metrics // per write, propagate only
}

type report struct {
	title string
	rows  []row
}

func (r row) updateRate() float64 {
	if r.duration <= 0 {
		return 0
	}
	return float64(r.resolved) / (float64(r.duration) / float64(time.Millisecond))
}

func renderTable(w io.Writer, rep report) error {
	if len(rep.rows) > 0 && rep.rows[0].latency != nil {
		renderLatencyTable(w, rep)
		return nil
	}

	fmt.Fprintln(w, rep.title)
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"test", "writes", "resolved", "cancelled", "time", "updateRate"})
	for _, r := range rep.rows {
		tbl.Append([]string{
			r.name,
			humanize.Comma(r.writes),
			humanize.Comma(r.resolved),
			humanize.Comma(r.cancelled),
			fmt.Sprint(r.duration),
			humanize.Comma(int64(r.updateRate())),
		})
	}
	tbl.Render()
	return nil
}

func renderLatencyTable(w io.Writer, rep report) {
	tbl := table.NewWriter()
	tbl.SetTitle(rep.title)
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "notifications"})
	for _, r := range rep.rows {
		tbl.AppendRow(table.Row{
			r.name,
			r.latency.Time.Avg,
			r.latency.Time.Min,
			r.latency.Time.P75,
			r.latency.Time.P99,
			r.latency.Time.Max,
			humanize.Comma(r.resolved),
		})
	}
	tbl.Render()
}

func renderJSON(w io.Writer, rep report) error {
	qw := quicktemplate.AcquireWriter(w)
	defer quicktemplate.ReleaseWriter(qw)

	out := qw.N()
	out.S(`{"title":`)
	out.Q(rep.title)
	out.S(`,"rows":[`)
	for i, r := range rep.rows {
		if i > 0 {
			out.S(`,`)
		}
		out.S(`{"name":`)
		out.Q(r.name)
		out.S(`,"writes":`)
		out.DL(r.writes)
		out.S(`,"resolved":`)
		out.DL(r.resolved)
		out.S(`,"cancelled":`)
		out.DL(r.cancelled)
		out.S(`,"durationNs":`)
		out.DL(int64(r.duration))
		out.S(`,"updateRate":`)
		out.FPrec(r.updateRate(), 3)
		if r.latency != nil {
			out.S(`,"latencyNs":{"avg":`)
			out.DL(int64(r.latency.Time.Avg))
			out.S(`,"min":`)
			out.DL(int64(r.latency.Time.Min))
			out.S(`,"p75":`)
			out.DL(int64(r.latency.Time.P75))
			out.S(`,"p99":`)
			out.DL(int64(r.latency.Time.P99))
			out.S(`,"max":`)
			out.DL(int64(r.latency.Time.Max))
			out.S(`}`)
		}
		out.S(`}`)
	}
	out.S("]}\n")
	return nil
}
