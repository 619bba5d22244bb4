package cli

// Model represents a text-to-text model id as served by the inference server
type Model string

// Model names
const (
	ModelFlanT5Small Model = "google/flan-t5-small"
	ModelFlanT5Base  Model = "google/flan-t5-base"
	ModelFlanT5Large Model = "google/flan-t5-large"
	ModelFlanT5XL    Model = "google/flan-t5-xl"

	DefaultModel = ModelFlanT5Base
)

// Input context size in tokens for models we know about
var modelContext = map[Model]int{
	ModelFlanT5Small: 512,
	ModelFlanT5Base:  512,
	ModelFlanT5Large: 512,
	ModelFlanT5XL:    512,
}

// inputBudget caps the configured prompt size to what the model accepts.
func inputBudget(model Model, configured int) int {
	if limit, ok := modelContext[model]; ok && limit < configured {
		return limit
	}
	return configured
}
