package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Section delimiters of the text configuration format
const (
	CarDelimiter      = "CARS"
	SeatDelimiter     = "SEATS"
	SeatEndDelimiter  = "END_SEAT"
	AvoidDelimiter    = "AVOID"
	AvoidEndDelimiter = "END_AVOID"
)

type parserSection int

const (
	outsideSection parserSection = iota
	carSection
	seatSection
	avoidSection
)

func InputFromConfig(file string, catalog Catalog) (ModelInput, error) {
	reader, err := os.Open(file)
	if err != nil {
		return ModelInput{}, errors.Wrapf(err, "cannot open %q", file)
	}
	defer reader.Close()

	rawInput, err := ParseConfig(reader)
	if err != nil {
		return ModelInput{}, err
	}
	return ProcessRawInput(rawInput, catalog)
}

// ParseConfig reads the text configuration format:
//
//	CARS
//	0 2 1
//	SEATS
//	alice 0
//	bob
//	END_SEAT
//	AVOID
//	alice bob
//	END_AVOID
//
// The AVOID block is optional. Anything outside the sections is ignored.
func ParseConfig(reader io.Reader) (RawModelInput, error) {
	rawInput := RawModelInput{
		Avoid: make(map[string][]string),
		Lines: make(map[string]int),
	}
	section := outsideSection
	seenCars, seenSeats := false, false
	repeated := make(map[string]bool)

	scanner := bufio.NewScanner(reader)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		switch section {
		case outsideSection:
			switch text {
			case CarDelimiter:
				section = carSection
			case SeatDelimiter:
				section = seatSection
				seenSeats = true
			case AvoidDelimiter:
				section = avoidSection
			}

		case carSection:
			// The car section is exactly the line following its delimiter
			section = outsideSection
			seenCars = true
			for _, field := range strings.Fields(text) {
				build, err := strconv.ParseUint(field, 10, 64)
				if err != nil {
					return RawModelInput{}, ConfigError{Line: line, Subject: "cars", Reason: fmt.Sprintf("invalid car build %q", field)}
				}
				rawInput.Cars = append(rawInput.Cars, build)
			}

		case seatSection:
			if text == SeatEndDelimiter {
				section = outsideSection
				continue
			} else if text == "" {
				continue
			}

			fields := strings.Fields(text)
			rider := RawRider{Name: fields[0]}
			for _, field := range fields[1:] {
				category, err := strconv.Atoi(field)
				if err != nil {
					return RawModelInput{}, ConfigError{Line: line, Subject: fields[0], Reason: fmt.Sprintf("invalid seat category %q", field)}
				}
				rider.Exclusions = append(rider.Exclusions, SeatCategory(category))
			}
			rawInput.Riders = append(rawInput.Riders, rider)
			// A repeated name keeps the line of its first repetition, which is the one reported
			if name := normalizeName(rider.Name); !repeated[name] {
				repeated[name] = rawInput.Lines[name] != 0
				rawInput.Lines[name] = line
			}

		case avoidSection:
			if text == AvoidEndDelimiter {
				section = outsideSection
				continue
			} else if text == "" {
				continue
			}

			fields := strings.Fields(text)
			if len(fields) < 2 {
				return RawModelInput{}, ConfigError{Line: line, Subject: fields[0], Reason: "avoidance line without any rider to avoid"}
			}
			name := normalizeName(fields[0])
			rawInput.Avoid[name] = append(rawInput.Avoid[name], fields[1:]...)
			rawInput.Lines[avoidLineKey(name)] = line
		}
	}
	if err := scanner.Err(); err != nil {
		return RawModelInput{}, errors.Wrap(err, "cannot read configuration")
	}

	switch {
	case section == carSection || !seenCars:
		return RawModelInput{}, ConfigError{Subject: "cars", Reason: fmt.Sprintf("no delimiter for %v or missing car information", CarDelimiter)}
	case !seenSeats:
		return RawModelInput{}, ConfigError{Subject: "riders", Reason: fmt.Sprintf("no delimiter for %v", SeatDelimiter)}
	case section == seatSection:
		return RawModelInput{}, ConfigError{Line: line, Subject: "riders", Reason: fmt.Sprintf("missing %v", SeatEndDelimiter)}
	case section == avoidSection:
		return RawModelInput{}, ConfigError{Line: line, Subject: "avoidance", Reason: fmt.Sprintf("missing %v", AvoidEndDelimiter)}
	}
	return rawInput, nil
}
