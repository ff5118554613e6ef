package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ssmithers/aidebate/internal/core"
)

// detectTimeout keeps model detection snappy; a down server should fail fast.
const detectTimeout = 5 * time.Second

// Detection describes the model currently loaded in LM Studio.
type Detection struct {
	ModelID string
	Name    string
}

// Friendly names for known local model IDs.
var knownModelNames = map[string]string{
	"glm-4.7-flash":     "GLM-4.7-Flash 30B",
	"devstral-small":    "Devstral Small 2 24B",
	"qwen2.5-coder-32b": "Qwen 2.5 Coder 32B",
	"qwen3-coder-30b":   "Qwen 3 Coder 30B",
}

// DetectLoadedModel queries LM Studio's /v1/models endpoint for the currently
// loaded model.
func DetectLoadedModel(ctx context.Context, endpoint string) (Detection, error) {
	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/v1/models", nil)
	if err != nil {
		return Detection{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Detection{}, fmt.Errorf("cannot connect to lm studio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Detection{}, fmt.Errorf("lm studio returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Detection{}, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Detection{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return Detection{}, fmt.Errorf("no models loaded in lm studio")
	}

	// LM Studio usually has only one model loaded.
	modelID := parsed.Data[0].ID
	name := modelID
	lower := strings.ToLower(modelID)
	for key, friendly := range knownModelNames {
		if strings.Contains(lower, key) {
			name = friendly
			break
		}
	}

	return Detection{ModelID: modelID, Name: name}, nil
}

// MergeDetection adds a detected model to the catalog under a derived alias
// if no existing entry already points at the same model ID. It returns the
// alias the model is reachable under and whether the catalog changed.
func MergeDetection(catalog Catalog, det Detection) (string, bool) {
	for alias, cfg := range catalog {
		if cfg.ID == det.ModelID {
			return alias, false
		}
	}

	// Derive an alias from the model ID, e.g. "zai-org/glm-4.7-flash" -> "glm".
	base := det.ModelID
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	alias := strings.ToLower(strings.SplitN(base, "-", 2)[0])
	if alias == "" {
		alias = "local"
	}
	for {
		if _, taken := catalog[alias]; !taken {
			break
		}
		alias += "x"
	}

	catalog[alias] = ModelConfig{
		ID:          det.ModelID,
		Name:        det.Name,
		Class:       core.ClassLocal,
		Temperature: 0.3,
		MaxTokens:   2048,
	}
	return alias, true
}
