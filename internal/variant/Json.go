package variant

import "github.com/goccy/go-json"

// MarshalJSON encodes a FeatureSet as a plain string array, matching the
// wire format's `"cpufeatures": [ "tok", ... ]` shape (spec §6).
func (fs FeatureSet) MarshalJSON() ([]byte, error) {
	strs := make([]string, len(fs.tokens))
	for i, t := range fs.tokens {
		strs[i] = string(t)
	}
	return json.Marshal(strs)
}

func (fs *FeatureSet) UnmarshalJSON(data []byte) error {
	var strs []string
	if err := json.Unmarshal(data, &strs); err != nil {
		return err
	}
	tokens := make([]FeatureToken, len(strs))
	for i, s := range strs {
		tokens[i] = FeatureToken(s)
	}
	*fs = NewFeatureSet(tokens...)
	return nil
}
