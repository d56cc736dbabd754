// Command roster lists the registered students from a terminal. It consumes
// the API through the same data-access client the UI uses, so the search
// behaves exactly like the dashboard filter.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/noah-isme/studreg-api/pkg/client"
	"github.com/noah-isme/studreg-api/pkg/dashboard"
)

func main() {
	apiURL := flag.String("api", "http://localhost:3000/api/student", "student API base URL")
	search := flag.String("search", "", "filter by name, email, or course")
	flag.Parse()

	c := client.New(*apiURL, nil)
	d := dashboard.NewDashboard(c)

	d.Load(context.Background())
	if d.State() == dashboard.StateError {
		msg := d.Message()
		if msg != nil {
			fmt.Fprintln(os.Stderr, msg.Content)
		}
		os.Exit(1)
	}

	d.SetSearch(*search)
	students := d.Visible()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCOURSE\tREGISTERED")
	for _, s := range students {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.FullName(), s.Email, s.Course, s.RegisteredDate)
	}
	w.Flush()

	fmt.Printf("\n%d of %d students\n", len(students), len(d.Students()))
}
