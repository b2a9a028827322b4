package remote

import (
	"encoding/json"
	"fmt"

	"github.com/biotaxa/taxoclient/models"
)

// tableSchemas is the validation boundary at the remote-CRUD edge: payloads
// for known tables are decoded into their typed schema and checked before a
// single byte leaves the process. Unknown tables pass through unchecked;
// the mirror is deliberately schemaless for tables the engine only reads.
var tableSchemas = map[string]func(json.RawMessage) error{
	models.TableFileUploads: func(raw json.RawMessage) error {
		var rec models.FileUpload
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		return rec.Validate()
	},
	models.TableProcessedData: func(raw json.RawMessage) error {
		var rec models.ProcessedData
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		return rec.Validate()
	},
}

func validateRecord(table string, record json.RawMessage) error {
	if len(record) == 0 {
		return fmt.Errorf("%w: empty payload for %s", ErrValidation, table)
	}
	if !json.Valid(record) {
		return fmt.Errorf("%w: malformed payload for %s", ErrValidation, table)
	}

	check, ok := tableSchemas[table]
	if !ok {
		return nil
	}
	if err := check(record); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return nil
}
