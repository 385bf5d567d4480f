package vision

import (
	"bytes"
	"errors"
)

// ErrTruncatedImage файл оборван до конечного маркера формата.
var ErrTruncatedImage = errors.New("image data is truncated")

var (
	jpegSOI = []byte{0xFF, 0xD8}
	jpegEOI = []byte{0xFF, 0xD9}

	pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	// тип и CRC чанка IEND, им всегда заканчивается целый PNG
	pngIEND = []byte{'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82}
)

// checkComplete отсекает оборванные JPEG и PNG. Декодер JPEG в OpenCV на
// обрыве только предупреждает и дорисовывает недостающие строки серым.
// Нулевой хвост после конечного маркера допускается.
func checkComplete(data []byte) error {
	switch {
	case bytes.HasPrefix(data, jpegSOI):
		if !bytes.HasSuffix(bytes.TrimRight(data, "\x00"), jpegEOI) {
			return ErrTruncatedImage
		}
	case bytes.HasPrefix(data, pngSignature):
		if !bytes.HasSuffix(bytes.TrimRight(data, "\x00"), pngIEND) {
			return ErrTruncatedImage
		}
	}
	return nil
}
