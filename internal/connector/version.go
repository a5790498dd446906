package connector

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ConfigVersion — версия схемы конфигурации коннектора.
// Версии полностью упорядочены: Legacy < V3_5_2 < Current.
type ConfigVersion int

// Известные версии схемы конфигурации.
const (
	Legacy ConfigVersion = iota
	V3_5_2
	Current
)

// Значения версий на проводе.
const (
	wireLegacy  = "legacy"
	wireV3_5_2  = "3.5.2"
	wireCurrent = "3.5.4"
)

// ErrUnknownConfigVersion возвращается ParseConfigVersion для строк,
// которые не являются ни меткой версии, ни версией шлюза вида "X.Y.Z".
var ErrUnknownConfigVersion = fmt.Errorf("unknown config version")

// Versions возвращает все версии в порядке возрастания.
func Versions() []ConfigVersion {
	return []ConfigVersion{Legacy, V3_5_2, Current}
}

// String возвращает значение версии на проводе.
func (v ConfigVersion) String() string {
	switch v {
	case Legacy:
		return wireLegacy
	case V3_5_2:
		return wireV3_5_2
	case Current:
		return wireCurrent
	default:
		return fmt.Sprintf("ConfigVersion(%d)", int(v))
	}
}

// IsValid сообщает, является ли значение одной из известных версий.
func (v ConfigVersion) IsValid() bool {
	return v >= Legacy && v <= Current
}

// Compare возвращает -1, 0 или 1 по аналогии с cmp.Compare.
func (v ConfigVersion) Compare(other ConfigVersion) int {
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}

// ParseConfigVersion разбирает версию из строки на проводе.
//
// Принимаются:
//   - "legacy" и пустая строка (шлюз считает запись без версии legacy);
//   - "3.5.2" и "3.5.4";
//   - любая версия шлюза вида "X.Y[.Z]": меньше 3.5.2 даёт Legacy,
//     от 3.5.2 до 3.5.4 (не включая) даёт V3_5_2, 3.5.4 и выше даёт Current.
func ParseConfigVersion(s string) (ConfigVersion, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", wireLegacy:
		return Legacy, nil
	case wireV3_5_2:
		return V3_5_2, nil
	case wireCurrent:
		return Current, nil
	}

	parts, err := parseDotted(s)
	if err != nil {
		return Legacy, fmt.Errorf("%w: %q", ErrUnknownConfigVersion, s)
	}
	switch {
	case compareDotted(parts, []int{3, 5, 2}) < 0:
		return Legacy, nil
	case compareDotted(parts, []int{3, 5, 4}) < 0:
		return V3_5_2, nil
	default:
		return Current, nil
	}
}

// parseDotted разбирает строку "3.5.2" в срез чисел.
// Допускается префикс "v" и от двух до четырёх компонент.
func parseDotted(s string) ([]int, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "v")
	fields := strings.Split(s, ".")
	if len(fields) < 2 || len(fields) > 4 {
		return nil, fmt.Errorf("expected X.Y[.Z], got %q", s)
	}
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version component %q", f)
		}
		parts[i] = n
	}
	return parts, nil
}

// compareDotted сравнивает версии покомпонентно, недостающие компоненты равны нулю.
func compareDotted(a, b []int) int {
	for i := 0; i < max(len(a), len(b)); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

// MarshalJSON сериализует версию в строку на проводе.
func (v ConfigVersion) MarshalJSON() ([]byte, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownConfigVersion, int(v))
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON разбирает версию из строки на проводе. null трактуется как Legacy.
func (v *ConfigVersion) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Legacy
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("configVersion must be a string: %w", err)
	}
	parsed, err := ParseConfigVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
