package parser

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNormalizeHeader(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Project Title": "projecttitle",
		" Client_Type ": "clienttype",
		"PCatID1":       "pcatid1",
		"P-SubCat-ID 7": "psubcatid7",
	}
	for in, want := range cases {
		if got := NormalizeHeader(in); got != want {
			t.Fatalf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildScenario(t *testing.T) {
	t.Parallel()

	header := NewHeader([]string{"ProjectTitle", "ProjectDate", "ClientName", "PCatID1"})
	project := header.Build([]string{"Feasibility Study for Thar Coal Power Project", "2015", "Government of Pakistan", "2"}, "p-0-1")

	if project.ID != "p-0-1" {
		t.Fatalf("unexpected id: %s", project.ID)
	}
	if project.Name != "Feasibility Study for Thar Coal Power Project" {
		t.Fatalf("unexpected name: %s", project.Name)
	}
	if project.Year != "2015" {
		t.Fatalf("unexpected year: %s", project.Year)
	}
	if project.Client != "Government of Pakistan" {
		t.Fatalf("unexpected client: %s", project.Client)
	}
	if !reflect.DeepEqual(project.Categories, []string{"Energy"}) {
		t.Fatalf("unexpected categories: %q", project.Categories)
	}
	if project.Subcategories == nil || len(project.Subcategories) != 0 {
		t.Fatalf("expected empty non-nil subcategories, got %#v", project.Subcategories)
	}
}

func TestBuildCategories(t *testing.T) {
	t.Parallel()

	header := NewHeader([]string{"ProjectTitle", "PCatID1", "PCatID2", "PCatID3", "PCatID4", "PCatID5"})
	project := header.Build([]string{"Integrated Energy Plan", "1", "3", "cat 3", ",Marine,", "42"}, "id")

	want := []string{"Environment", "Marine", "42"}
	if !reflect.DeepEqual(project.Categories, want) {
		t.Fatalf("categories = %q, want %q", project.Categories, want)
	}
}

func TestBuildSubcategories(t *testing.T) {
	t.Parallel()

	header := NewHeader([]string{"ProjectTitle", "PSubCatID1", "PSubCatID2", "PSubCatID3", "PSubCatID4"})
	project := header.Build([]string{
		"Integrated Energy Plan",
		"5",
		"Power  Generation, and   Transformation,",
		"99",
		"Coastal Zoning,",
	}, "id")

	want := []string{"Power Generation and Transformation", "99", "Coastal Zoning"}
	if !reflect.DeepEqual(project.Subcategories, want) {
		t.Fatalf("subcategories = %q, want %q", project.Subcategories, want)
	}
}

func TestBuildClientType(t *testing.T) {
	t.Parallel()

	header := NewHeader([]string{"ProjectTitle", "ClientType"})

	short := header.Build([]string{"Hydropower Tariff Study", ",Government,"}, "a")
	if short.ClientType != "Government" {
		t.Fatalf("unexpected client type: %q", short.ClientType)
	}

	long := strings.Repeat("x", 45)
	oversized := header.Build([]string{"Hydropower Tariff Study", long}, "b")
	if oversized.ClientType != "" {
		t.Fatalf("expected oversized client type to be dropped, got %q", oversized.ClientType)
	}

	edge := header.Build([]string{"Hydropower Tariff Study", strings.Repeat("y", 40)}, "c")
	if edge.ClientType != "" {
		t.Fatalf("expected 40-rune client type to be dropped, got %q", edge.ClientType)
	}
}

func TestBuildShortRowAndUnknownHeaders(t *testing.T) {
	t.Parallel()

	header := NewHeader([]string{"Notes", "ProjectCode", "ProjectTitle", "Description"})
	project := header.Build([]string{"ignored", "HB-204"}, "id")

	if project.Code != "HB-204" {
		t.Fatalf("unexpected code: %q", project.Code)
	}
	if project.Name != "" || project.Description != "" {
		t.Fatalf("expected missing trailing fields to be empty, got %+v", project)
	}
}

func TestCSVSourceRead(t *testing.T) {
	t.Parallel()

	stamp := time.UnixMilli(1700000000000)
	source := NewCSVSource(func() time.Time { return stamp }, nil)

	text := "ProjectCode,ProjectTitle\nA-1,First Project Title\n\nA-2,Second Project Title\n"
	got, err := source.Read(context.Background(), strings.NewReader(text))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}

	if !reflect.DeepEqual(got.Header, []string{"projectcode", "projecttitle"}) {
		t.Fatalf("unexpected header: %q", got.Header)
	}
	if len(got.Projects) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got.Projects))
	}
	if got.Projects[0].ID != "p-0-1700000000000" || got.Projects[1].ID != "p-1-1700000000000" {
		t.Fatalf("unexpected ids: %s, %s", got.Projects[0].ID, got.Projects[1].ID)
	}
}
