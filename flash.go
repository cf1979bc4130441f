package cfp

type FlashType string

const (
	FlashSuccess FlashType = "success"
	FlashWarning FlashType = "warning"
	FlashError   FlashType = "error"
)

// Flash is a one-time notice, shown on the next rendered page and then discarded.
type Flash struct {
	Type  FlashType `json:"type"`
	Short string    `json:"short"`
	Ext   string    `json:"ext"`
}

func SuccessFlash(ext string) *Flash {
	return &Flash{Type: FlashSuccess, Short: "Success", Ext: ext}
}

func WarningFlash(ext string) *Flash {
	return &Flash{Type: FlashWarning, Short: "Warning", Ext: ext}
}

func ErrorFlash(ext string) *Flash {
	return &Flash{Type: FlashError, Short: "Error", Ext: ext}
}
