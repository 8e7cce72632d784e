package agent

import (
	"math/rand"
	"testing"
)

func TestPickLinkSkipsVisited(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	links := []string{"https://a.example", "https://b.example", "https://c.example"}
	visited := map[string]bool{
		"https://a.example": true,
		"https://c.example": true,
	}

	link, ok := pickLink(links, visited, rnd)
	if !ok {
		t.Fatal("expected a link")
	}
	if link != "https://b.example" {
		t.Errorf("expected the only unvisited link, got %q", link)
	}
}

func TestPickLinkExhausted(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	visited := map[string]bool{"https://a.example": true}

	if _, ok := pickLink([]string{"https://a.example"}, visited, rnd); ok {
		t.Error("expected no link when everything is visited")
	}
	if _, ok := pickLink(nil, visited, rnd); ok {
		t.Error("expected no link for an empty page")
	}
}

func TestPickLinkDoesNotMutateInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	links := []string{"https://a.example", "https://b.example"}

	pickLink(links, map[string]bool{}, rnd)

	if links[0] != "https://a.example" || links[1] != "https://b.example" {
		t.Errorf("input slice mutated: %v", links)
	}
}
