package listing

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/textnorm"
)

// University is a campus searchers refer to by nickname
type University struct {
	Keys     []string
	Name     string
	District string
	City     string
}

const cityHCM = "TP. Hồ Chí Minh"

// Universities is the nickname dictionary, checked in order. Keys are
// lower-case; keys without tone marks are matched against folded text.
var Universities = []University{
	{Keys: []string{"bk", "bach khoa", "hcmut", "bách khoa"}, Name: "Đại học Bách Khoa", District: "Quận Thủ Đức", City: cityHCM},
	{Keys: []string{"khtn", "hcmus", "khoa hoc tu nhien", "khoa học tự nhiên"}, Name: "Đại học Khoa học Tự nhiên", District: "Quận Thủ Đức", City: cityHCM},
	{Keys: []string{"ueh", "kinh te", "kinh tế"}, Name: "Đại học Kinh tế", District: "Bình Thạnh", City: cityHCM},
	{Keys: []string{"su pham", "sư phạm", "hcmue", "sp"}, Name: "Đại học Sư phạm", District: "Quận 5", City: cityHCM},
	{Keys: []string{"ton duc thang", "tôn đức thắng", "tdtu", "tdt"}, Name: "Đại học Tôn Đức Thắng", District: "Quận 7", City: cityHCM},
	{Keys: []string{"van lang", "văn lang", "vl"}, Name: "Đại học Văn Lang", District: "Bình Thạnh", City: cityHCM},
	{Keys: []string{"huflit"}, Name: "Đại học Ngoại ngữ - Tin học", District: "Bình Thạnh", City: cityHCM},
	{Keys: []string{"hutech", "cong nghe", "công nghệ"}, Name: "Đại học Công nghệ TP.HCM", District: "Bình Thạnh", City: cityHCM},
}

// MentionedIn reports whether text names u by any key or by its full name.
// Short keys must stand alone as words; "bk" does not match inside "bkav".
func (u University) MentionedIn(text string) bool {
	lower := textnorm.Lower(text)
	if strings.Contains(lower, textnorm.Lower(u.Name)) {
		return true
	}
	for _, key := range u.Keys {
		if textnorm.ContainsWord(lower, key) {
			return true
		}
	}
	return false
}

// FindUniversity returns the first university mentioned in text, along with
// the key that matched.
func FindUniversity(text string) (University, string, bool) {
	lower := textnorm.Lower(text)
	for _, u := range Universities {
		for _, key := range u.Keys {
			if textnorm.ContainsWord(lower, key) {
				return u, key, true
			}
		}
	}
	return University{}, "", false
}

// LookupUniversity resolves a university reference, either a full name
// ("Đại học Bách Khoa") or a nickname ("ueh"). Diacritics are ignored.
func LookupUniversity(ref string) (University, bool) {
	folded := textnorm.Fold(strings.TrimSpace(ref))
	if folded == "" {
		return University{}, false
	}
	for _, u := range Universities {
		name := textnorm.Fold(u.Name)
		if strings.Contains(folded, name) || (len(folded) > 3 && strings.Contains(name, folded)) {
			return u, true
		}
	}
	for _, u := range Universities {
		for _, key := range u.Keys {
			if textnorm.ContainsWord(folded, textnorm.Fold(key)) {
				return u, true
			}
		}
	}
	return University{}, false
}

var (
	numericDistrictRe = regexp.MustCompile(`(?:^|[^a-z])(?:quan|q|district)\s*\.?\s*(\d{1,2})(?:$|[^0-9])`)
	bareNumberRe      = regexp.MustCompile(`^\s*(\d{1,2})\s*$`)
)

// namedDistricts maps folded district names to their codes
var namedDistricts = []struct {
	name string
	code string
	// display is the stored spelling
	display string
}{
	{"thu duc", "thu-duc", "Thủ Đức"},
	{"binh thanh", "binh-thanh", "Bình Thạnh"},
	{"go vap", "go-vap", "Gò Vấp"},
	{"phu nhuan", "phu-nhuan", "Phú Nhuận"},
	{"tan binh", "tan-binh", "Tân Bình"},
	{"tan phu", "tan-phu", "Tân Phú"},
	{"binh tan", "binh-tan", "Bình Tân"},
	{"nha be", "nha-be", "Nhà Bè"},
	{"binh chanh", "binh-chanh", "Bình Chánh"},
	{"hoc mon", "hoc-mon", "Hóc Môn"},
	{"cu chi", "cu-chi", "Củ Chi"},
	{"can gio", "can-gio", "Cần Giờ"},
}

// CanonicalDistrict maps a free-form district ("Quận 1", "Q.1", "quan 1",
// "Thủ Đức") to a stable code such as "q1" or "thu-duc". Unknown districts
// return "".
func CanonicalDistrict(s string) string {
	folded := textnorm.Fold(s)
	if folded == "" {
		return ""
	}
	if m := numericDistrictRe.FindStringSubmatch(folded); m != nil {
		return "q" + strings.TrimLeft(m[1], "0")
	}
	if m := bareNumberRe.FindStringSubmatch(folded); m != nil {
		return "q" + strings.TrimLeft(m[1], "0")
	}
	for _, d := range namedDistricts {
		if textnorm.ContainsWord(folded, d.name) {
			return d.code
		}
	}
	return ""
}

// DistrictName returns the display form of a district code, such as
// "Quận 7" for "q7" or "Bình Thạnh" for "binh-thanh".
func DistrictName(code string) string {
	if n, ok := strings.CutPrefix(code, "q"); ok && n != "" && n[0] >= '0' && n[0] <= '9' {
		return "Quận " + n
	}
	for _, d := range namedDistricts {
		if d.code == code {
			return d.display
		}
	}
	return ""
}

// DistrictVariants returns the spellings a district may be stored under
func DistrictVariants(district string) []string {
	code := CanonicalDistrict(district)
	if code == "" {
		return []string{strings.TrimSpace(district)}
	}
	if n, ok := strings.CutPrefix(code, "q"); ok && n != "" && n[0] >= '0' && n[0] <= '9' {
		return []string{
			fmt.Sprintf("Quận %s", n),
			fmt.Sprintf("quận %s", n),
			fmt.Sprintf("Q%s", n),
			fmt.Sprintf("Q.%s", n),
			fmt.Sprintf("quan %s", n),
		}
	}
	for _, d := range namedDistricts {
		if d.code != code {
			continue
		}
		variants := []string{d.display, "Quận " + d.display, cases.Title(language.Vietnamese).String(d.name)}
		if code == "thu-duc" {
			variants = append(variants, "TP. Thủ Đức", "Thành phố Thủ Đức")
		}
		return variants
	}
	return []string{strings.TrimSpace(district)}
}

// cities maps city codes to their known spellings. Spellings are matched
// against folded input, so the first entry in each list is the display form.
var cities = []struct {
	code      string
	spellings []string
}{
	{"hcm", []string{"TP. Hồ Chí Minh", "Hồ Chí Minh", "TP.HCM", "TPHCM", "HCM", "Sài Gòn", "Saigon"}},
	{"hn", []string{"Hà Nội", "TP. Hà Nội", "Hanoi", "Ha Noi"}},
	{"dn", []string{"Đà Nẵng", "TP. Đà Nẵng", "Da Nang", "Danang"}},
}

var compactor = strings.NewReplacer(" ", "", ".", "")

// maxCompactWords bounds the inputs CanonicalCity compares with spaces and
// dots removed. Longer text is free text, where "nha noi that" would
// compact into "hanoi".
const maxCompactWords = 4

// CanonicalCity maps a city field to "hcm", "hn" or "dn", ignoring spacing
// and dots in short inputs ("Sai Gon", "TP HCM"). Unknown cities return "".
func CanonicalCity(s string) string {
	if code := FindCity(s); code != "" {
		return code
	}
	folded := strings.Join(strings.Fields(textnorm.Fold(s)), " ")
	if folded == "" || textnorm.WordCount(folded) > maxCompactWords {
		return ""
	}
	compact := compactor.Replace(folded)
	for _, c := range cities {
		for _, sp := range c.spellings {
			if strings.Contains(compact, compactor.Replace(textnorm.Fold(sp))) {
				return c.code
			}
		}
	}
	return ""
}

// FindCity returns the code of the first city named in free text. Spellings
// must stand alone as words.
func FindCity(text string) string {
	folded := strings.Join(strings.Fields(textnorm.Fold(text)), " ")
	if folded == "" {
		return ""
	}
	for _, c := range cities {
		for _, sp := range c.spellings {
			if textnorm.ContainsWord(folded, textnorm.Fold(sp)) {
				return c.code
			}
		}
	}
	return ""
}

// CityName returns the display form of a city code
func CityName(code string) string {
	for _, c := range cities {
		if c.code == code {
			return c.spellings[0]
		}
	}
	return ""
}

// CityVariants returns the input plus every known spelling of its city
func CityVariants(city string) []string {
	city = strings.TrimSpace(city)
	code := CanonicalCity(city)
	for _, c := range cities {
		if c.code == code {
			out := []string{city}
			for _, sp := range c.spellings {
				if sp != city {
					out = append(out, sp)
				}
			}
			return out
		}
	}
	return []string{city}
}
