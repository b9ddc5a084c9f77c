package redis

import "testing"

func TestCompetitionKeyRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "valid", key: CompetitionKey("gemastik-2025"), want: "gemastik-2025"},
		{name: "id with colon", key: CompetitionKey("a:b"), want: "a:b"},
		{name: "prefix only", key: KeyPrefixCompetition, wantErr: true},
		{name: "foreign key", key: "lombahub:bookmarks:x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractCompetitionID(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractCompetitionID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractCompetitionID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCatalogKeysShareNamespace(t *testing.T) {
	if KeyCatalogIDs != "lombahub:catalog:ids" {
		t.Errorf("KeyCatalogIDs = %s", KeyCatalogIDs)
	}
	if got := CompetitionKey("x"); got != "lombahub:catalog:competition:x" {
		t.Errorf("CompetitionKey() = %s", got)
	}
}
