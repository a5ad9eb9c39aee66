package openrtb_ext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// BidderName refers to a bidder for which a params schema exists.
type BidderName string

const BidderSmaato BidderName = "smaato"

// CoreBidderNames returns the bidders this module ships schemas for.
func CoreBidderNames() []BidderName {
	return []BidderName{
		BidderSmaato,
	}
}

// GetBidderName returns the BidderName for a case insensitive name.
func GetBidderName(name string) (BidderName, bool) {
	for _, bidder := range CoreBidderNames() {
		if strings.EqualFold(string(bidder), name) {
			return bidder, true
		}
	}
	return "", false
}

// BidderParamValidator describes the JSON schema validator for the bidder params of an ad unit.
type BidderParamValidator interface {
	Validate(name BidderName, ext json.RawMessage) error
	// Schema returns the JSON schema used to perform validation.
	Schema(name BidderName) string
}

// NewBidderParamsValidator makes a BidderParamValidator, assuming all the necessary files exist in the filesystem.
// This will error if a schema file does not match a known bidder.
func NewBidderParamsValidator(schemaDirectory string) (BidderParamValidator, error) {
	filesystem := http.Dir(schemaDirectory)
	entries, err := os.ReadDir(schemaDirectory)
	if err != nil {
		return nil, fmt.Errorf("Failed to read JSON schemas from directory %s. %v", schemaDirectory, err)
	}

	schemaContents := make(map[BidderName]string, len(entries))
	schemas := make(map[BidderName]*gojsonschema.Schema, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		bidderName, isValid := GetBidderName(strings.TrimSuffix(entry.Name(), ".json"))
		if !isValid {
			return nil, fmt.Errorf("File %s/%s does not match a valid BidderName.", schemaDirectory, entry.Name())
		}

		schemaLoader := gojsonschema.NewReferenceLoaderFileSystem(fmt.Sprintf("file:///%s", entry.Name()), filesystem)
		loadedSchema, err := gojsonschema.NewSchema(schemaLoader)
		if err != nil {
			return nil, fmt.Errorf("Failed to load json schema at %s/%s: %v", schemaDirectory, entry.Name(), err)
		}

		fileBytes, err := os.ReadFile(filepath.Join(schemaDirectory, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("Failed to read file %s/%s: %v", schemaDirectory, entry.Name(), err)
		}

		schemas[bidderName] = loadedSchema
		schemaContents[bidderName] = string(fileBytes)
	}

	for _, bidderName := range CoreBidderNames() {
		if _, ok := schemas[bidderName]; !ok {
			return nil, fmt.Errorf("Missing json schema for bidder %s in %s", bidderName, schemaDirectory)
		}
	}

	return &bidderParamValidator{
		schemaContents: schemaContents,
		parsedSchemas:  schemas,
	}, nil
}

type bidderParamValidator struct {
	schemaContents map[BidderName]string
	parsedSchemas  map[BidderName]*gojsonschema.Schema
}

func (validator *bidderParamValidator) Validate(name BidderName, ext json.RawMessage) error {
	schema, ok := validator.parsedSchemas[name]
	if !ok {
		return fmt.Errorf("unknown bidder %s", name)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(ext))
	if err != nil {
		return err
	}
	if !result.Valid() {
		errBuilder := bytes.NewBuffer(make([]byte, 0, 300))
		for _, err := range result.Errors() {
			errBuilder.WriteString(err.String())
		}
		return errors.New(errBuilder.String())
	}
	return nil
}

func (validator *bidderParamValidator) Schema(name BidderName) string {
	return validator.schemaContents[name]
}
