package kafka_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rudderlabs/rudder-purifier/connections"
	"github.com/rudderlabs/rudder-purifier/services/kafka"
	"github.com/rudderlabs/rudder-purifier/sql/ast"
)

var _ = Describe("ExtractConfig", func() {
	It("consumes client options and leaves the others in place", func() {
		options := map[string]ast.Value{
			"client.id":               ast.String("purifier"),
			"enable.auto.commit":      ast.Boolean(false),
			"fetch.message.max.bytes": ast.Number("1048576"),
			"sasl.password":           ast.Secret{ID: "pwd"},
			"kafka_time_offset":       ast.Number("-1000"),
			"topic":                   ast.String("ignored"),
		}

		extracted, err := kafka.ExtractConfig(options)
		Expect(err).NotTo(HaveOccurred())
		Expect(extracted).To(Equal(connections.Options{
			"client.id":               connections.Literal("purifier"),
			"enable.auto.commit":      connections.Literal("false"),
			"fetch.message.max.bytes": connections.Literal("1048576"),
			"sasl.password":           connections.SecretRef("pwd"),
		}))
		Expect(options).To(HaveLen(2))
		Expect(options).To(HaveKey("kafka_time_offset"))
		Expect(options).To(HaveKey("topic"))
	})

	It("accepts booleans given as strings", func() {
		extracted, err := kafka.ExtractConfig(map[string]ast.Value{"enable.idempotence": ast.String("true")})
		Expect(err).NotTo(HaveOccurred())
		Expect(extracted["enable.idempotence"]).To(Equal(connections.Literal("true")))
	})

	DescribeTable("rejects invalid values",
		func(key string, value ast.Value, expectedErr string) {
			_, err := kafka.ExtractConfig(map[string]ast.Value{key: value})
			Expect(err).To(MatchError(expectedErr))
		},
		Entry("number out of range", "statistics.interval.ms", ast.Number("-1"),
			"invalid statistics.interval.ms option -1: expected a number between 0 and 86400000"),
		Entry("not a number", "fetch.message.max.bytes", ast.String("lots"),
			"invalid fetch.message.max.bytes option lots: expected a number"),
		Entry("not a boolean", "enable.auto.commit", ast.String("maybe"),
			"invalid enable.auto.commit option maybe: expected a boolean"),
		Entry("plaintext password", "sasl.password", ast.String("hunter2"),
			"sasl.password must be a secret"),
		Entry("secret client id", "client.id", ast.Secret{ID: "id"},
			"client.id must be a string, not a secret"),
		Entry("array", "acks", ast.Array{ast.String("all")},
			"invalid acks option [all]: expected a scalar value"),
	)

	It("lists the option names", func() {
		names := kafka.ConfigOptionNames()
		Expect(names).To(ContainElements("client.id", "security.protocol", "ssl.key.pem"))
		Expect(names).NotTo(ContainElement("kafka_time_offset"))
	})
})
