// Package payment gera o QR Code PIX exibido antes da confirmação manual do
// pagamento. Nenhum gateway é consultado.
package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

const (
	// QRSize é o lado da imagem PNG em pixels.
	QRSize = 256

	cidadePadrao = "SAO PAULO"
	maxNome      = 25
	maxTxID      = 25
)

var (
	ErrChaveVazia    = errors.New("chave PIX não configurada")
	ErrValorInvalido = errors.New("valor do PIX deve ser maior que zero")
)

var semAcento = strings.NewReplacer(
	"á", "a", "à", "a", "ã", "a", "â", "a", "é", "e", "ê", "e", "í", "i",
	"ó", "o", "õ", "o", "ô", "o", "ú", "u", "ü", "u", "ç", "c",
	"Á", "A", "À", "A", "Ã", "A", "Â", "A", "É", "E", "Ê", "E", "Í", "I",
	"Ó", "O", "Õ", "O", "Ô", "O", "Ú", "U", "Ü", "U", "Ç", "C",
)

// PixPayload monta o "copia e cola" (BR Code estático) com valor fixo.
func PixPayload(chave, loja string, valor decimal.Decimal, referencia string) (string, error) {
	chave = strings.TrimSpace(chave)
	if chave == "" {
		return "", ErrChaveVazia
	}
	if !valor.IsPositive() {
		return "", ErrValorInvalido
	}

	conta := campo("00", "br.gov.bcb.pix") + campo("01", chave)
	txid := limpar(referencia, maxTxID, false)
	if txid == "" {
		txid = "***"
	}

	var b strings.Builder
	b.WriteString(campo("00", "01"))
	b.WriteString(campo("26", conta))
	b.WriteString(campo("52", "0000"))
	b.WriteString(campo("53", "986"))
	b.WriteString(campo("54", valor.StringFixed(2)))
	b.WriteString(campo("58", "BR"))
	b.WriteString(campo("59", limpar(loja, maxNome, true)))
	b.WriteString(campo("60", cidadePadrao))
	b.WriteString(campo("62", campo("05", txid)))
	b.WriteString("6304")

	payload := b.String()
	return payload + fmt.Sprintf("%04X", crc16(payload)), nil
}

// PixQRCode devolve o PNG do QR Code para o valor do carrinho.
func PixQRCode(chave, loja string, valor decimal.Decimal, referencia string) ([]byte, error) {
	payload, err := PixPayload(chave, loja, valor, referencia)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, QRSize)
	if err != nil {
		return nil, fmt.Errorf("gerando QR Code PIX: %w", err)
	}
	return png, nil
}

func campo(id, valor string) string {
	return fmt.Sprintf("%s%02d%s", id, len(valor), valor)
}

// limpar remove acentos e caracteres fora do alfabeto aceito e corta em limite.
func limpar(s string, limite int, espacos bool) string {
	s = semAcento.Replace(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' && espacos:
			b.WriteRune(r)
		}
		if b.Len() == limite {
			break
		}
	}
	out := strings.ToUpper(strings.TrimSpace(b.String()))
	if out == "" && espacos {
		return "LOJA"
	}
	return out
}

// crc16 é o CRC-16/CCITT-FALSE exigido pelo campo 63 do BR Code.
func crc16(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
