package platform

import (
	"fmt"
	"strings"
)

func (s *SearchStrategy) UnmarshalText(text []byte) error {
	str := strings.ToLower(strings.TrimSpace(string(text)))
	if str == "" {
		*s = SearchStrategySimilarity
		return nil
	}

	switch SearchStrategy(str) {
	case SearchStrategySimilarity, SearchStrategyKeyword, SearchStrategyHybrid:
		*s = SearchStrategy(str)
		return nil
	}

	return fmt.Errorf("unknown search strategy: %q", str)
}
