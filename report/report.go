// Package report renders the balance tables designers compare against the
// reference spreadsheet.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rsandor/Solace-sub001/game/actor"
	"github.com/rsandor/Solace-sub001/game/effect"
	"github.com/rsandor/Solace-sub001/game/passive"
	"github.com/rsandor/Solace-sub001/game/stats"
)

// Archetype is a named role assignment shown in the character table.
type Archetype struct {
	Name  string
	Roles actor.Roles
}

// Archetypes are the role assignments the report covers.
var Archetypes = []Archetype{
	{"warrior", actor.Roles{Major: stats.Vitality, Minor: stats.Strength}},
	{"brawler", actor.Roles{Major: stats.Strength, Minor: stats.Vitality}},
	{"mage", actor.Roles{Major: stats.Magic, Minor: stats.Speed}},
	{"cleric", actor.Roles{Major: stats.Magic, Minor: stats.Vitality}},
	{"rogue", actor.Roles{Major: stats.Speed, Minor: stats.Strength}},
}

// MobilePowers are the power columns of the mobile table.
var MobilePowers = []int{25, 50, 75, 100}

// DefaultLevels is used when no levels are requested.
var DefaultLevels = []int{1, 25, 50, 75, 100}

// ParseLevels reads a comma separated level list such as "1,25,50".
func ParseLevels(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultLevels, nil
	}
	var levels []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%w: level %q", stats.ErrInvalidArgument, f)
		}
		if n < 1 || n > 100 {
			return nil, fmt.Errorf("%w: level %d out of range", stats.ErrInvalidArgument, n)
		}
		levels = append(levels, n)
	}
	return levels, nil
}

func table(w io.Writer, title string, header []string, rows [][]string) error {
	if _, err := fmt.Fprintf(w, "== %s ==\n", title); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func itoa(vs ...int) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = strconv.Itoa(v)
	}
	return out
}

// Abilities writes the ability score curve.
func Abilities(w io.Writer, levels []int) error {
	rows := make([][]string, 0, len(levels))
	for _, l := range levels {
		row := itoa(l)
		for _, r := range []stats.Role{stats.Major, stats.Minor, stats.Tertiary} {
			v, err := stats.Ability(l, r)
			if err != nil {
				return err
			}
			row = append(row, strconv.Itoa(v))
		}
		rows = append(rows, row)
	}
	return table(w, "ability scores", []string{"level", "major", "minor", "tertiary"}, rows)
}

// Characters writes the derived stats of each archetype.
func Characters(w io.Writer, levels []int) error {
	var rows [][]string
	for _, a := range Archetypes {
		for _, l := range levels {
			c, err := actor.NewCharacter(a.Name, l, a.Roles)
			if err != nil {
				return err
			}
			will, err := actor.SavingThrow(c, "will")
			if err != nil {
				return err
			}
			rows = append(rows, append([]string{a.Name}, itoa(
				l,
				c.MaxResource(actor.HP), c.MaxResource(actor.MP), c.MaxResource(actor.SP),
				c.AC(), c.AttackRoll(), c.AverageDamage(), c.NumberOfAttacks(), will,
			)...))
		}
	}
	return table(w, "characters",
		[]string{"archetype", "level", "hp", "mp", "sp", "ac", "roll", "damage", "attacks", "will"}, rows)
}

// Mobiles writes the derived stats of mobiles at each power.
func Mobiles(w io.Writer, levels []int) error {
	var rows [][]string
	for _, l := range levels {
		for _, p := range MobilePowers {
			m, err := actor.NewMobile("mobile", l, p)
			if err != nil {
				return err
			}
			row := itoa(l, p, m.MaxResource(actor.HP), m.AC(), m.AttackRoll(), m.AverageDamage())
			rows = append(rows, append(row, strconv.FormatFloat(m.ChanceToHit(), 'f', 3, 64)))
		}
	}
	return table(w, "mobiles", []string{"level", "power", "hp", "ac", "roll", "damage", "cth"}, rows)
}

// Passives lists the registered passives and the channels they modify.
func Passives(w io.Writer, reg *passive.Registry) error {
	var rows [][]string
	for _, name := range reg.Names() {
		e, err := reg.Get(name)
		if err != nil {
			return err
		}
		var chans []string
		for _, ch := range effect.Channels {
			if e.Registered(ch) {
				chans = append(chans, ch.String())
			}
		}
		if len(chans) == 0 {
			chans = append(chans, "-")
		}
		rows = append(rows, []string{name, strings.ReplaceAll(e.Label(), " ", "_"), strings.Join(chans, ",")})
	}
	return table(w, "passives", []string{"name", "label", "channels"}, rows)
}

// Write renders every table.
func Write(w io.Writer, levels []int) error {
	for _, fn := range []func(io.Writer, []int) error{Abilities, Characters, Mobiles} {
		if err := fn(w, levels); err != nil {
			return err
		}
	}
	return nil
}
