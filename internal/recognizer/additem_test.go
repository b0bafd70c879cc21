package recognizer_test

import (
	"testing"

	"github.com/rampradops28/final-app/internal/recognizer"
)

func TestParse_AddItemQuantityFirst(t *testing.T) {
	t.Parallel()
	rec := newRecognizer(t)

	cases := []struct {
		in      string
		want    recognizer.Entities
		message string
	}{
		{
			in: "add potato 1 piece 50",
			want: recognizer.Entities{
				Name:           "Potato",
				QuantityRaw:    "1 piece",
				QuantityNumber: 1,
				Unit:           "piece",
				RateNumber:     50,
			},
			message: "Add Potato 1 piece ₹50",
		},
		{
			in: "add potato 1 kg 50",
			want: recognizer.Entities{
				Name:           "Potato",
				QuantityRaw:    "1 kg",
				QuantityNumber: 1,
				Unit:           "kg",
				RateNumber:     50,
			},
			message: "Add Potato 1 kg ₹50",
		},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got := rec.Parse(tc.in)
			if got.Intent != recognizer.IntentAddItem {
				t.Fatalf("Intent = %q, want %q", got.Intent, recognizer.IntentAddItem)
			}
			if !got.Success || got.Confidence != 0.9 {
				t.Errorf("Success = %v, Confidence = %v, want true / 0.9", got.Success, got.Confidence)
			}
			if got.Entities != tc.want {
				t.Errorf("Entities = %+v, want %+v", got.Entities, tc.want)
			}
			if got.Message != tc.message {
				t.Errorf("Message = %q, want %q", got.Message, tc.message)
			}
		})
	}
}

func TestParse_AddItemCurrencyMarkedPrice(t *testing.T) {
	t.Parallel()
	rec := newRecognizer(t)

	got := rec.Parse("add potato 2 kg for rs 120")
	if got.Intent != recognizer.IntentAddItem {
		t.Fatalf("Intent = %q, want %q", got.Intent, recognizer.IntentAddItem)
	}
	want := recognizer.Entities{
		Name:           "Potato",
		QuantityRaw:    "2 kg",
		QuantityNumber: 2,
		Unit:           "kg",
		RateNumber:     120,
	}
	if got.Entities != want {
		t.Errorf("Entities = %+v, want %+v", got.Entities, want)
	}
	if got.Message != "Add Potato 2 kg ₹120" {
		t.Errorf("Message = %q, want %q", got.Message, "Add Potato 2 kg ₹120")
	}
}

func TestParse_AddItemPriceBeforeQuantity(t *testing.T) {
	t.Parallel()
	rec := newRecognizer(t)

	cases := []struct {
		in   string
		want recognizer.Entities
	}{
		{
			// Marked price leading: the currency symbol disambiguates.
			in: "add sugar ₹80 2 kg",
			want: recognizer.Entities{
				Name:           "Sugar",
				QuantityRaw:    "2 kg",
				QuantityNumber: 2,
				Unit:           "kg",
				RateNumber:     80,
			},
		},
		{
			// Bare price leading: the unit sits next to the second number.
			in: "add milk 40 1 liter",
			want: recognizer.Entities{
				Name:           "Milk",
				QuantityRaw:    "1 liter",
				QuantityNumber: 1,
				Unit:           "liter",
				RateNumber:     40,
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got := rec.Parse(tc.in)
			if got.Intent != recognizer.IntentAddItem {
				t.Fatalf("Parse(%q).Intent = %q, want %q", tc.in, got.Intent, recognizer.IntentAddItem)
			}
			if got.Entities != tc.want {
				t.Errorf("Parse(%q).Entities = %+v, want %+v", tc.in, got.Entities, tc.want)
			}
		})
	}
}

func TestParse_AddItemPriceOnlyDefaultsQuantity(t *testing.T) {
	t.Parallel()
	rec := newRecognizer(t)

	cases := []struct {
		in      string
		name    string
		rate    float64
		message string
	}{
		{"add bread for 30", "Bread", 30, "Added 1 piece of Bread for ₹30"},
		{"add potato 50", "Potato", 50, "Added 1 piece of Potato for ₹50"},
		{"add soap for rs 25 rupees", "Soap", 25, "Added 1 piece of Soap for ₹25"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got := rec.Parse(tc.in)
			if got.Intent != recognizer.IntentAddItem {
				t.Fatalf("Parse(%q).Intent = %q, want %q", tc.in, got.Intent, recognizer.IntentAddItem)
			}
			e := got.Entities
			if e.Name != tc.name || e.QuantityRaw != "1 piece" || e.QuantityNumber != 1 || e.Unit != "piece" || e.RateNumber != tc.rate {
				t.Errorf("Parse(%q).Entities = %+v", tc.in, e)
			}
			if got.Message != tc.message {
				t.Errorf("Parse(%q).Message = %q, want %q", tc.in, got.Message, tc.message)
			}
		})
	}
}

func TestParse_AddItemFractionalQuantity(t *testing.T) {
	t.Parallel()
	rec := newRecognizer(t)

	got := rec.Parse("add rice 2.5 kg 110")
	if got.Intent != recognizer.IntentAddItem {
		t.Fatalf("Intent = %q, want %q", got.Intent, recognizer.IntentAddItem)
	}
	if got.Entities.QuantityRaw != "2.5 kg" || got.Entities.QuantityNumber != 2.5 {
		t.Errorf("quantity = %q (%v), want 2.5 kg", got.Entities.QuantityRaw, got.Entities.QuantityNumber)
	}
	if got.Message != "Add Rice 2.5 kg ₹110" {
		t.Errorf("Message = %q, want %q", got.Message, "Add Rice 2.5 kg ₹110")
	}
}

func TestParse_AddItemUnitAliasNormalized(t *testing.T) {
	t.Parallel()
	rec := newRecognizer(t)

	cases := []struct {
		in       string
		wantUnit string
		wantRaw  string
	}{
		{"add potato 2 kgs 50", "kg", "2 kg"},
		{"add milk 1 litre 60", "liter", "1 liter"},
		{"add biscuits 3 pkt 45", "packet", "3 packet"},
		{"add eggs 12 pcs 72", "piece", "12 piece"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got := rec.Parse(tc.in)
			if got.Intent != recognizer.IntentAddItem {
				t.Fatalf("Parse(%q).Intent = %q, want %q", tc.in, got.Intent, recognizer.IntentAddItem)
			}
			if got.Entities.Unit != tc.wantUnit {
				t.Errorf("Parse(%q).Unit = %q, want %q", tc.in, got.Entities.Unit, tc.wantUnit)
			}
			if got.Entities.QuantityRaw != tc.wantRaw {
				t.Errorf("Parse(%q).QuantityRaw = %q, want %q", tc.in, got.Entities.QuantityRaw, tc.wantRaw)
			}
		})
	}
}

// An unrecognized token between the numbers defeats the unit patterns; the
// price-only pattern then claims the first number as the price.
func TestParse_AddItemUnknownUnitFallsToPriceOnly(t *testing.T) {
	t.Parallel()
	rec := newRecognizer(t)

	got := rec.Parse("add potato 1 xyz 50")
	if got.Intent != recognizer.IntentAddItem {
		t.Fatalf("Intent = %q, want %q", got.Intent, recognizer.IntentAddItem)
	}
	e := got.Entities
	if e.RateNumber != 1 || e.QuantityRaw != "1 piece" {
		t.Errorf("Entities = %+v, want rate 1 and quantity \"1 piece\"", e)
	}
}

func TestParse_AddItemNoPriceIsUnknown(t *testing.T) {
	t.Parallel()
	rec := newRecognizer(t)

	for _, in := range []string{"add potato", "add potato 0", "add something nice"} {
		got := rec.Parse(in)
		if got.Intent != recognizer.IntentUnknown {
			t.Errorf("Parse(%q).Intent = %q, want unknown", in, got.Intent)
		}
		if got.Success {
			t.Errorf("Parse(%q).Success = true, want false", in)
		}
	}
}

// The trigger accepts synonym verbs, but every structural pattern anchors on
// "add". A synonym therefore commits the add_item rule and then fails
// extraction, unless the phrase also contains "add" somewhere.
func TestParse_AddItemVerbSynonyms(t *testing.T) {
	t.Parallel()
	rec := newRecognizer(t)

	for _, in := range []string{"insert potato 1 kg 50", "put potato 1 kg 50", "include potato 1 kg 50"} {
		got := rec.Parse(in)
		if got.Intent != recognizer.IntentUnknown {
			t.Errorf("Parse(%q).Intent = %q, want unknown", in, got.Intent)
		}
	}

	got := rec.Parse("please add potato 1 kg 50")
	if got.Intent != recognizer.IntentAddItem {
		t.Errorf("Parse(%q).Intent = %q, want %q", "please add potato 1 kg 50", got.Intent, recognizer.IntentAddItem)
	}
}
