package scanning

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

func testJPEG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	Expect(jpeg.Encode(&buf, img, nil)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("toPNG", func() {
	It("should convert a JPEG to PNG", func() {
		out, err := toPNG(testJPEG(), "image/jpeg")
		Expect(err).NotTo(HaveOccurred())
		_, format, err := image.Decode(bytes.NewReader(out))
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal("png"))
	})

	It("should return PNG data unchanged", func() {
		data := []byte("already png")
		out, err := toPNG(data, " IMAGE/PNG ")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(data))
	})

	It("should fail on data that is not an image", func() {
		_, err := toPNG([]byte("jpgTest"), "image/jpeg")
		Expect(err).To(MatchError(ContainSubstring("decoding image")))
	})
})

var _ = Describe("Ollama", func() {
	var (
		api     *ghttp.Server
		scanner *Ollama
	)

	BeforeEach(func() {
		api = ghttp.NewServer()
		var err error
		scanner, err = NewOllama(api.URL(), "llava")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		api.Close()
	})

	When("the model answers with JSON", func() {
		BeforeEach(func() {
			api.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/api/chat"),
				ghttp.VerifyContentType("application/json"),
				func(w http.ResponseWriter, r *http.Request) {
					defer GinkgoRecover()
					body, err := io.ReadAll(r.Body)
					Expect(err).NotTo(HaveOccurred())
					var req ollamaChatRequest
					Expect(json.Unmarshal(body, &req)).To(Succeed())
					Expect(req.Model).To(Equal("llava"))
					Expect(req.Stream).To(BeFalse())
					Expect(req.Messages).To(HaveLen(2))
					images := req.Messages[1].Images
					Expect(images).To(HaveLen(1))
					decoded, err := base64.StdEncoding.DecodeString(images[0])
					Expect(err).NotTo(HaveOccurred())
					_, err = png.Decode(bytes.NewReader(decoded))
					Expect(err).NotTo(HaveOccurred())
				},
				ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
					Message: ollamaMessage{Role: "assistant", Content: `{"name":"Taxi G7","date":"14/04/2022","amount":42.5,"vat":7.08}`},
					Done:    true,
				}),
			))
		})

		It("should return the parsed receipt data", func() {
			data, err := scanner.ScanReceipt(context.Background(), testJPEG(), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())
			Expect(data.Name).To(Equal("Taxi G7"))
			Expect(data.Date).To(Equal("2022-04-14"))
			Expect(data.Amount).To(Equal(42.5))
		})
	})

	When("the API returns an error status", func() {
		BeforeEach(func() {
			api.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"))
		})

		It("should return the error with the body", func() {
			_, err := scanner.ScanReceipt(context.Background(), testJPEG(), "image/jpeg")
			Expect(err).To(MatchError(ContainSubstring("model not loaded")))
		})
	})

	When("the image cannot be decoded", func() {
		It("should fail before calling the API", func() {
			_, err := scanner.ScanReceipt(context.Background(), []byte("nope"), "image/jpeg")
			Expect(err).To(HaveOccurred())
			Expect(api.ReceivedRequests()).To(BeEmpty())
		})
	})

	It("should close without error", func() {
		Expect(scanner.Close()).To(Succeed())
	})
})

var _ = Describe("NewGemini", func() {
	It("should require an api key", func() {
		_, err := NewGemini("", "")
		Expect(err).To(MatchError(ContainSubstring("api key is required")))
	})
})
