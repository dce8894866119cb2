package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hrygo/schoolglance/plugin/satchel"
	"github.com/hrygo/schoolglance/server/service/widget"
	"github.com/hrygo/schoolglance/server/timezone"
)

// Manual probe for the widget pipeline: fetches a student's timetable and
// homework straight from Satchel and prints the record the widget would
// receive, without going through the HTTP server.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		bearer   = flag.String("bearer", os.Getenv("SATCHEL_BEARER"), "Satchel bearer token")
		userID   = flag.String("user", os.Getenv("SATCHEL_USER_ID"), "Satchel student id")
		schoolID = flag.String("school", os.Getenv("SATCHEL_SCHOOL_ID"), "Satchel school id")
		baseURL  = flag.String("upstream", satchel.DefaultBaseURL, "Satchel API root")
		zone     = flag.String("timezone", timezone.DefaultTimezone, "IANA zone for rendering")
		timeout  = flag.Duration("timeout", 15*time.Second, "upstream request timeout")
	)
	flag.Parse()

	if *bearer == "" || *userID == "" || *schoolID == "" {
		log.Fatal("missing credentials: set -bearer, -user and -school (or SATCHEL_BEARER, SATCHEL_USER_ID, SATCHEL_SCHOOL_ID)")
	}

	if exp, ok := satchel.TokenExpiry(*bearer); ok {
		log.Printf("bearer token expires %s", exp.Format(time.RFC3339))
	}

	loc, err := timezone.ParseTimezone(*zone)
	if err != nil {
		log.Fatalf("Failed to load timezone: %v", err)
	}

	client := satchel.NewClient(&satchel.Config{BaseURL: *baseURL, Timeout: *timeout})
	service := widget.NewService(client, loc)

	// Two sequential upstream calls plus slack.
	ctx, cancel := context.WithTimeout(context.Background(), 2*(*timeout)+5*time.Second)
	defer cancel()

	log.Println("fetching widget record...")
	record, err := service.BuildRecord(ctx, satchel.Credentials{
		Bearer:   *bearer,
		UserID:   *userID,
		SchoolID: *schoolID,
	})
	if err != nil {
		log.Fatalf("Failed to build record: %v", err)
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render record: %v", err)
	}
	fmt.Println(string(out))
}
