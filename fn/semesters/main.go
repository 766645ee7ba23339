package semesters

import (
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"github.com/sapfetch/sapfetch/pkg/catalog"
	"github.com/sapfetch/sapfetch/pkg/sap"
)

func ListSemesters(w http.ResponseWriter, _ *http.Request) {
	fetcher := catalog.NewFetcher(sap.NewClient(), false)

	semesters, err := fetcher.Semesters()
	if err != nil {
		panic(err)
	}

	// TODO: serve JSON once the frontend consumes this directly
	spew.Fdump(w, semesters)
}
