package wikitext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Paris", "Paris"},
		{"link", "[[Paris]]", "Paris"},
		{"piped link", "[[Paris, France|Paris]]", "Paris"},
		{"pipe trick", "[[Kingston (Jamaica)|]]", "Kingston (Jamaica)"},
		{"ref block", "[[Bern]]<ref name=\"x\">{{cite web|url=http://a}}</ref>", "Bern"},
		{"self closing ref", "Tokyo<ref name=a />", "Tokyo"},
		{"comment", "Lima<!-- de jure -->", "Lima"},
		{"unknown template", "{{Coord|52|N}}Amsterdam", "Amsterdam"},
		{"nested template", "{{a|{{b|c}}}}Rome", "Rome"},
		{"plainlist", "{{plainlist|\n* [[Sucre]]\n* [[La Paz]]}}", "Sucre\nLa Paz"},
		{"ubl", "{{ubl|[[Pretoria]] (executive)|[[Cape Town]] (legislative)}}", "Pretoria (executive)\nCape Town (legislative)"},
		{"lang", "{{lang|fr|Yaoundé}}", "Yaoundé"},
		{"lang prefix", "{{lang-ar|القاهرة}}", "القاهرة"},
		{"break", "[[Amsterdam]]<br />(constitutional)", "Amsterdam\n(constitutional)"},
		{"bold italic", "'''Vatican City''' ''(city-state)''", "Vatican City (city-state)"},
		{"apostrophe kept", "Côte d'Ivoire", "Côte d'Ivoire"},
		{"external link", "[https://example.org Nairobi]", "Nairobi"},
		{"file link", "[[File:Flag.svg|20px]] Kabul", " Kabul"},
		{"entities", "S&atilde;o Tom&eacute;&nbsp;City", "São Tomé City"},
		{"html tag", "<span style=\"x\">Oslo</span>", "Oslo"},
		{"unbalanced", "{{broken [[Dakar]]", "broken Dakar"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCode(tt.in))
		})
	}
}

func TestInfoboxField(t *testing.T) {
	page := `{{Short description|Country in Europe}}
{{Infobox country
| conventional_long_name = Kingdom of the Netherlands
| capital = [[Amsterdam]]{{efn|Official capital}}
| largest_city = capital
| government_type = {{nowrap|[[Unitary state|Unitary]]}}
}}
'''The Netherlands''' is a country.`

	got, ok := InfoboxField(page, "capital")
	assert.True(t, ok)
	assert.Equal(t, "[[Amsterdam]]{{efn|Official capital}}", got)
	assert.Equal(t, "Amsterdam", StripCode(got))

	got, ok = InfoboxField(page, "Government_Type")
	assert.True(t, ok)
	assert.Equal(t, "{{nowrap|[[Unitary state|Unitary]]}}", got)

	_, ok = InfoboxField(page, "anthem")
	assert.False(t, ok)

	_, ok = InfoboxField("'''Georgia''' may refer to:", "capital")
	assert.False(t, ok)

	_, ok = InfoboxField("{{Infobox country\n| capital = \n}}", "capital")
	assert.False(t, ok, "empty parameter is treated as missing")
}
