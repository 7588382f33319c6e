package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Ошибки сравнения деклараций
	DiffInfo             Code = 1000
	DiffMalformedNode    Code = 1001
	DiffTokenizerFailed  Code = 1002
	DiffTokenizerTimeout Code = 1003
	DiffPermissionParse  Code = 1004

	// Ввод-вывод
	IOInfo          Code = 2000
	IOLoadFileError Code = 2001
	IOParseError    Code = 2002
	IOWalkError     Code = 2003

	// Проверка меток
	LabelInfo         Code = 3000
	LabelMalformedAPI Code = 3001
	LabelInconsistent Code = 3002

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	DiffInfo:             "Diff information",
	DiffMalformedNode:    "Malformed declaration node",
	DiffTokenizerFailed:  "Doc comment tokenizer failed",
	DiffTokenizerTimeout: "Doc comment tokenizer timed out",
	DiffPermissionParse:  "Permission expression not understood",
	IOInfo:               "I/O information",
	IOLoadFileError:      "I/O load file error",
	IOParseError:         "Header parser failed",
	IOWalkError:          "Directory walk failed",
	LabelInfo:            "Label check information",
	LabelMalformedAPI:    "Malformed API tree node",
	LabelInconsistent:    "Label inconsistency",
	ObsInfo:              "Observability information",
	ObsTimings:           "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DIF%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LBL%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
