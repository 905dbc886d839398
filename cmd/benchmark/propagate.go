package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/delaneyj/bindable/bindable"
	"github.com/jamiealquiza/tachymeter"
)

func addOne(oldValue int) int {
	return oldValue + 1
}

// benchmarkPropagate builds w chains of h derived variables hanging off one
// source, subscribes the end of each chain and times single source writes.
func benchmarkPropagate(ww, hh []int, iters int) []row {
	rows := make([]row, 0, len(ww)*len(hh))
	for _, w := range ww {
		for _, h := range hh {
			slog.Debug("building graph", "width", w, "depth", h)
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			src := bindable.New(1)
			var effects int64
			for i := 0; i < w; i++ {
				last := src
				for j := 0; j < h; j++ {
					last, _ = bindable.Derive(last, addOne)
				}
				last.Subscribe(func(int) {
					effects++
				})
			}

			start := time.Now()
			for i := 0; i < iters; i++ {
				t := time.Now()
				src.SetValue(src.Value() + 1)
				tach.AddTime(time.Since(t))
			}

			rows = append(rows, row{
				name:     fmt.Sprintf("propagate: %d * %d", w, h),
				writes:   int64(iters),
				resolved: effects,
				duration: time.Since(start),
				latency:  tach.Calc(),
			})
		}
	}
	return rows
}
