package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/pmconsole/internal/client/search"
)

// runSearch applies a one-shot query when args are given. Without args it
// reads queries line by line until an empty line; results are printed each
// time the debounced query settles.
func runSearch[T search.Record](ctx context.Context, a *App, f *search.Filter[T], args []string, render func([]T)) {
	if len(args) > 0 {
		f.SetQuery(strings.Join(args, " "))
		f.Flush()
		render(f.Results())
		return
	}

	unsubscribe := f.Subscribe(func(q string) {
		a.printf("-- results for %q\n", q)
		render(f.Results())
	})
	defer unsubscribe()

	a.println("Type to filter, empty line to finish.")
	for ctx.Err() == nil {
		line, err := a.reader.ReadString('\n')
		q := strings.TrimRight(line, "\r\n")
		if q == "" {
			break
		}
		f.SetQuery(q)
		if err != nil {
			break
		}
	}
	f.Flush()
}
