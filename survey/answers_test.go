package survey

import (
	"testing"

	"Pollster/storage"
)

func TestRecordAppendsInOrder(t *testing.T) {
	var answers map[string][]storage.Answer
	answers = record(answers, "Acme", 1, storage.Answer{Text: "a1"})
	answers = record(answers, "Acme", 2, storage.Answer{Text: "a2"})

	list := answers["Acme"]
	if len(list) != 2 || list[0].Text != "a1" || list[1].Text != "a2" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestRecordOverwritesNewestSlot(t *testing.T) {
	answers := map[string][]storage.Answer{
		"Acme": {{Text: "a1"}},
	}
	answers = record(answers, "Acme", 1, storage.Answer{Text: "a1-fixed"})

	list := answers["Acme"]
	if len(list) != 1 || list[0].Text != "a1-fixed" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestRecordGapStartsFreshList(t *testing.T) {
	answers := map[string][]storage.Answer{
		"Acme": {{Text: "a1"}, {Text: "a2"}},
	}
	answers = record(answers, "Acme", 1, storage.Answer{Text: "fresh"})

	list := answers["Acme"]
	if len(list) != 1 {
		t.Fatalf("expected the list to restart with 1 entry, got %+v", list)
	}
	if list[0].Text != "fresh" {
		t.Fatalf("unexpected entry: %+v", list[0])
	}
}

func TestRecordKeepsSetsIndependent(t *testing.T) {
	answers := map[string][]storage.Answer{
		"Basic": {{Text: "b1"}, {Text: "b2"}},
	}
	answers = record(answers, "Acme", 1, storage.Answer{Text: "a1"})

	if len(answers["Basic"]) != 2 {
		t.Fatalf("basic answers modified: %+v", answers["Basic"])
	}
	if len(answers["Acme"]) != 1 {
		t.Fatalf("unexpected acme answers: %+v", answers["Acme"])
	}
}

func TestRecordPhotoPlaceholder(t *testing.T) {
	answers := record(nil, "Acme", 1, storage.Answer{Photo: true})
	list := answers["Acme"]
	if len(list) != 1 || !list[0].Photo || list[0].Empty() {
		t.Fatalf("unexpected list: %+v", list)
	}
}
