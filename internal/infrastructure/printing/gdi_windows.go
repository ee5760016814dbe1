//go:build windows

package printing

import (
	"errors"
	"syscall"
	"unsafe"

	"github.com/erp/printagent/internal/domain/printing"
	"golang.org/x/sys/windows"
)

var (
	gdi32 = windows.NewLazySystemDLL("gdi32.dll")

	procCreateDCW       = gdi32.NewProc("CreateDCW")
	procDeleteDC        = gdi32.NewProc("DeleteDC")
	procStartDocW       = gdi32.NewProc("StartDocW")
	procEndDoc          = gdi32.NewProc("EndDoc")
	procStartPage       = gdi32.NewProc("StartPage")
	procEndPage         = gdi32.NewProc("EndPage")
	procCreateFontW     = gdi32.NewProc("CreateFontW")
	procSelectObject    = gdi32.NewProc("SelectObject")
	procDeleteObject    = gdi32.NewProc("DeleteObject")
	procSetBkMode       = gdi32.NewProc("SetBkMode")
	procGetTextMetricsW = gdi32.NewProc("GetTextMetricsW")
	procTextOutW        = gdi32.NewProc("TextOutW")
)

const (
	defaultCharset    = 1
	outDefaultPrecis  = 0
	clipDefaultPrecis = 0
	defaultQuality    = 0
	ffModern          = 0x30
	fixedPitch        = 0x01
	bkModeTransparent = 1
)

// docInfo mirrors DOCINFOW
type docInfo struct {
	cbSize       int32
	lpszDocName  *uint16
	lpszOutput   *uint16
	lpszDatatype *uint16
	fwType       uint32
}

// textMetric mirrors TEXTMETRICW
type textMetric struct {
	tmHeight           int32
	tmAscent           int32
	tmDescent          int32
	tmInternalLeading  int32
	tmExternalLeading  int32
	tmAveCharWidth     int32
	tmMaxCharWidth     int32
	tmWeight           int32
	tmOverhang         int32
	tmDigitizedAspectX int32
	tmDigitizedAspectY int32
	tmFirstChar        uint16
	tmLastChar         uint16
	tmDefaultChar      uint16
	tmBreakChar        uint16
	tmItalic           byte
	tmUnderlined       byte
	tmStruckOut        byte
	tmPitchAndFamily   byte
	tmCharSet          byte
}

// NewGDIOpener returns an opener that creates WINSPOOL printer device contexts
func NewGDIOpener() DeviceOpener {
	return DeviceOpenerFunc(openGDI)
}

// lastError turns the error captured by a failed LazyProc call into a
// usable diagnostic. A zero errno means the API did not set one.
func lastError(err error, api string) error {
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return errno
	}
	return errors.New(api + " returned no error code")
}

func openGDI(printer printing.PrinterName) (Device, error) {
	if err := gdi32.Load(); err != nil {
		return nil, printing.NewPrintError(printing.ErrKindDeviceAcquisition, "gdi32.dll unavailable", err)
	}
	driver, err := windows.UTF16PtrFromString("WINSPOOL")
	if err != nil {
		return nil, err
	}
	device, err := windows.UTF16PtrFromString(printer.String())
	if err != nil {
		return nil, printing.NewPrintError(printing.ErrKindDeviceAcquisition, "invalid printer name", err)
	}

	hdc, _, callErr := procCreateDCW.Call(
		uintptr(unsafe.Pointer(driver)),
		uintptr(unsafe.Pointer(device)),
		0,
		0,
	)
	if hdc == 0 {
		return nil, printing.NewPrintError(printing.ErrKindDeviceAcquisition,
			"could not open printer "+printer.String(), lastError(callErr, "CreateDCW"))
	}
	return &gdiDevice{hdc: hdc}, nil
}

// gdiDevice is a printer device context
type gdiDevice struct {
	hdc uintptr
}

func (d *gdiDevice) StartDoc(name string) error {
	docName, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}
	di := docInfo{lpszDocName: docName}
	di.cbSize = int32(unsafe.Sizeof(di))

	r, _, callErr := procStartDocW.Call(d.hdc, uintptr(unsafe.Pointer(&di)))
	if int32(r) <= 0 {
		return lastError(callErr, "StartDocW")
	}
	return nil
}

func (d *gdiDevice) StartPage() error {
	r, _, callErr := procStartPage.Call(d.hdc)
	if int32(r) <= 0 {
		return lastError(callErr, "StartPage")
	}
	procSetBkMode.Call(d.hdc, bkModeTransparent)
	return nil
}

func (d *gdiDevice) CreateFont(spec printing.FontSpec) (FontHandle, error) {
	face, err := windows.UTF16PtrFromString(spec.Face)
	if err != nil {
		return 0, err
	}
	h, _, callErr := procCreateFontW.Call(
		uintptr(int32(spec.Height)),
		0, // width
		0, // escapement
		0, // orientation
		uintptr(int32(spec.Weight)),
		0, // italic
		0, // underline
		0, // strikeout
		defaultCharset,
		outDefaultPrecis,
		clipDefaultPrecis,
		defaultQuality,
		ffModern|fixedPitch,
		uintptr(unsafe.Pointer(face)),
	)
	if h == 0 {
		return 0, lastError(callErr, "CreateFontW")
	}
	return FontHandle(h), nil
}

func (d *gdiDevice) SelectFont(font FontHandle) (FontHandle, error) {
	prev, _, callErr := procSelectObject.Call(d.hdc, uintptr(font))
	if prev == 0 {
		return 0, lastError(callErr, "SelectObject")
	}
	return FontHandle(prev), nil
}

func (d *gdiDevice) DeleteFont(font FontHandle) error {
	r, _, callErr := procDeleteObject.Call(uintptr(font))
	if r == 0 {
		return lastError(callErr, "DeleteObject")
	}
	return nil
}

func (d *gdiDevice) TextMetrics() (printing.TextMetrics, error) {
	var tm textMetric
	r, _, callErr := procGetTextMetricsW.Call(d.hdc, uintptr(unsafe.Pointer(&tm)))
	if r == 0 {
		return printing.TextMetrics{}, lastError(callErr, "GetTextMetricsW")
	}
	return printing.TextMetrics{
		Height:          int(tm.tmHeight),
		ExternalLeading: int(tm.tmExternalLeading),
	}, nil
}

func (d *gdiDevice) TextOut(x, y int, text string) error {
	wide, err := windows.UTF16FromString(text)
	if err != nil {
		return err
	}
	n := len(wide) - 1 // without the terminating NUL
	if n <= 0 {
		return nil
	}
	r, _, callErr := procTextOutW.Call(
		d.hdc,
		uintptr(int32(x)),
		uintptr(int32(y)),
		uintptr(unsafe.Pointer(&wide[0])),
		uintptr(int32(n)),
	)
	if r == 0 {
		return lastError(callErr, "TextOutW")
	}
	return nil
}

func (d *gdiDevice) EndPage() error {
	r, _, callErr := procEndPage.Call(d.hdc)
	if int32(r) <= 0 {
		return lastError(callErr, "EndPage")
	}
	return nil
}

func (d *gdiDevice) EndDoc() error {
	r, _, callErr := procEndDoc.Call(d.hdc)
	if int32(r) <= 0 {
		return lastError(callErr, "EndDoc")
	}
	return nil
}

func (d *gdiDevice) Close() error {
	if d.hdc == 0 {
		return nil
	}
	r, _, callErr := procDeleteDC.Call(d.hdc)
	d.hdc = 0
	if r == 0 {
		return lastError(callErr, "DeleteDC")
	}
	return nil
}

var _ Device = (*gdiDevice)(nil)
