package adguard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yllada/adguardvpn-desktop/common"
)

const logInMessage = "Please log in"

var (
	statusRe        = regexp.MustCompile(`Connected to (.+?) in (\S+) mode`)
	exclusionModeRe = regexp.MustCompile(`(?i)exclusion mode is (\S+)`)

	licenseUsernameRe   = regexp.MustCompile(`Logged in as (.+)`)
	licenseSubTypeRe    = regexp.MustCompile(`You are using the (FREE|PREMIUM) version`)
	maxDevicesRe        = regexp.MustCompile(`Up to (\d+) devices simultaneously`)
	licenseValidUntilRe = regexp.MustCompile(`Your subscription will be renewed on (.+)`)

	headerRe = regexp.MustCompile(`(\w+)\s*`)

	titleCaser = cases.Title(language.English)
)

func needsLogin(output string) bool {
	return strings.Contains(output, logInMessage)
}

// parseStatus turns `status` output into a Status. lookup resolves the
// reported city against the location catalog and may return nil.
func parseStatus(output string, lookup func(city string) *Location) *Status {
	matches := statusRe.FindStringSubmatch(output)
	if matches == nil {
		return &Status{}
	}

	city := strings.TrimSpace(matches[1])
	location := lookup(city)
	if location == nil {
		location = &Location{City: titleCaser.String(strings.ToLower(city))}
	}

	return &Status{
		Connected: true,
		Location:  location,
		Mode:      strings.ToLower(matches[2]),
	}
}

// parseAccount turns `license` output into an Account. A nil account
// means nobody is logged in.
func parseAccount(output string) *Account {
	if needsLogin(output) {
		return nil
	}

	account := &Account{}
	for line := range strings.Lines(output) {
		if m := licenseUsernameRe.FindStringSubmatch(line); m != nil {
			account.Username = strings.TrimSpace(m[1])
		}
		if m := licenseSubTypeRe.FindStringSubmatch(line); m != nil {
			account.Subscription.Type = m[1]
		}
		if m := maxDevicesRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.ParseUint(m[1], 10, 8); err == nil {
				account.Subscription.MaxDevices = uint8(n)
			}
		}
		if m := licenseValidUntilRe.FindStringSubmatch(line); m != nil {
			if date, err := time.Parse(time.DateOnly, strings.TrimSpace(m[1])); err == nil {
				account.Subscription.ValidUntil = date
			}
		}
	}
	return account
}

// parseLocations turns the `list-locations` table into locations.
// Unparseable pings are reported as -1.
func parseLocations(output string) []Location {
	if needsLogin(output) {
		return []Location{}
	}

	return parseTable(output, func(row map[string]string) Location {
		ping, err := strconv.Atoi(row["PING"])
		if err != nil {
			ping = -1
		}
		return Location{
			ISO:     row["ISO"],
			Country: row["COUNTRY"],
			City:    row["CITY"],
			Ping:    ping,
		}
	})
}

func parseExclusionMode(output string) (ExclusionMode, error) {
	matches := exclusionModeRe.FindStringSubmatch(output)
	if matches == nil {
		return "", fmt.Errorf("%w: unable to parse exclusion mode: %q", common.ErrUnexpectedData, strings.TrimSpace(output))
	}
	return ParseExclusionMode(matches[1])
}

func parseExclusions(output string) []string {
	result := make([]string, 0)
	for line := range strings.Lines(output) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Exclusions for") {
			continue
		}
		result = append(result, line)
	}
	return result
}

type tableColumn struct {
	width int
	name  string
}

// parseTable reads a fixed-width table whose column widths are given by the
// header line. Parsing stops at the first blank line after the header.
func parseTable[T any](table string, convert func(row map[string]string) T) []T {
	var columns []tableColumn
	result := make([]T, 0)

	for line := range strings.Lines(table) {
		if columns == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			for _, m := range headerRe.FindAllStringSubmatch(strings.TrimRight(line, "\r\n"), -1) {
				columns = append(columns, tableColumn{width: utf8.RuneCountInString(m[0]), name: m[1]})
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			break
		}

		// Widths count characters, so city and country names outside ASCII
		// do not shift the columns that follow them.
		row := make(map[string]string, len(columns))
		rest := []rune(strings.TrimRight(line, "\r\n"))
		for i, col := range columns {
			width := min(col.width, len(rest))
			if i == len(columns)-1 {
				width = len(rest)
			}
			row[col.name] = strings.TrimSpace(string(rest[:width]))
			rest = rest[width:]
		}
		result = append(result, convert(row))
	}
	return result
}
